package domain

// VertexStatus represents the lifecycle state of one unit of work (a package
// load or write) reported to the progress recorder.
type VertexStatus string

const (
	// VertexStatusPending indicates the vertex is waiting on dependencies.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates the vertex is currently executing.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the vertex finished successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the vertex failed; the run aborts.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the package was skipped because its source
	// tree was unchanged since the recorded conversion.
	VertexStatusCached VertexStatus = "cached"
)

// IsTerminal reports whether the status is a terminal state.
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a progress log line, mirroring slog.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
