package roster

import "errors"

// Sentinel kinds for roster extraction errors.
var (
	ErrUnsupportedFile    = errors.New("unsupported roster file type")
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
)
