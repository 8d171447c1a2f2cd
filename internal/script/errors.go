package script

import "fmt"

// SyntaxError reports script text that failed to parse. Message contains
// the chunk name and line as reported by the VM.
type SyntaxError struct {
	Chunk   string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script: syntax error in %s: %s", e.Chunk, e.Message)
}

// RuntimeError reports an error raised while executing script code. The
// message carries the VM's best-effort source location.
type RuntimeError struct {
	Chunk   string
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("script: runtime error in %s: %s", e.Chunk, e.Message)
}

// MissingStdlibError means the shared standard script set failed to load.
// This is fatal for the session: level scripts depend on the standard
// helpers, so there is no degraded mode to fall back to.
type MissingStdlibError struct {
	Script string
	Err    error
}

func (e *MissingStdlibError) Error() string {
	return fmt.Sprintf("script: standard script %s failed to load: %v", e.Script, e.Err)
}

func (e *MissingStdlibError) Unwrap() error { return e.Err }
