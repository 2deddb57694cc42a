package ctl

import "time"

// Defaults for the command line flags.
const (
	DefaultBaseURL    = "http://localhost:9080"
	DefaultTimeout    = 30 * time.Second
	DefaultEvents     = 6
	DefaultWorkers    = 4
	DefaultRosterSize = 8
	DefaultNoise      = 2
	DefaultLimit      = 10
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

const (
	filePermission      = 0600
	directoryPermission = 0750
)
