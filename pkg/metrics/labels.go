package metrics

// Labels used when an operation fails or succeeds.
const (
	resultOK    = "ok"
	resultError = "error"
)
