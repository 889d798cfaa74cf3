package session

// Status is the single active state of a session. Upload validation is
// synchronous, so there is no distinct uploading state: a valid file moves
// straight to previewing.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusPreviewing Status = "previewing"
	StatusGenerating Status = "generating"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)
