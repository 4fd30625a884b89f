package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2 // bad config or unreadable reports file
	DBError         = 3
	ExportError     = 4
	ExtractError    = 5
	PartialSuccess  = 6 // some reports failed model extraction
)
