package launcher

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// CompileError is returned when the compiler exited with a non-zero status
type CompileError struct {
	Code int
}

var _ error = (*CompileError)(nil)

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler exited with status %d", e.Code)
}

// SpawnError is returned when a process couldn't be started at all (i.e. the executable is missing)
type SpawnError struct {
	Command string
	Err     error
}

var _ error = (*SpawnError)(nil)

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// SkipReason explains why the run step didn't execute
type SkipReason int

const (
	// SkipNoTrigger means the first argument was missing or didn't match the trigger token
	SkipNoTrigger SkipReason = iota + 1
	// SkipBuildFailed means the trigger was present but the build step failed
	SkipBuildFailed
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoTrigger:
		return "not triggered"
	case SkipBuildFailed:
		return "build failed"
	default:
		return fmt.Sprintf("SkipReason(%d)", int(r))
	}
}

// RunSkipped is returned by MaybeRun when the binary wasn't executed. It's not a failure.
type RunSkipped struct {
	Reason SkipReason
}

var _ error = (*RunSkipped)(nil)

func (e *RunSkipped) Error() string {
	return "run skipped: " + e.Reason.String()
}

// ErrorKind classifies errors returned by this package
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindCompile
	KindSpawn
	KindRunSkipped
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCompile:
		return "compile"
	case KindSpawn:
		return "spawn"
	case KindRunSkipped:
		return "run skipped"
	default:
		return "other"
	}
}

// Kind returns the kind of err. Wrapped errors are unwrapped.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var compileErr *CompileError
	if eris.As(err, &compileErr) {
		return KindCompile
	}

	var spawnErr *SpawnError
	if eris.As(err, &spawnErr) {
		return KindSpawn
	}

	var skipped *RunSkipped
	if eris.As(err, &skipped) {
		return KindRunSkipped
	}

	return KindOther
}
