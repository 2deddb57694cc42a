package swagger

import _ "embed"

// specYAML is the OpenAPI document of the HTTP API.
//
//go:embed openapi.yaml
var specYAML []byte
