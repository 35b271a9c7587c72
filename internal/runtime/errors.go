package runtime

import "fmt"

// RuntimeUnavailableError reports that no usable container runtime was found.
//
// This is the one unrecoverable precondition of the CLI: every lifecycle
// operation shells into the container runtime, so when the daemon does not
// respond (or, for compose-based flows, neither form of the compose command
// exists) the operation aborts with exit code 1 and no recovery is attempted.
type RuntimeUnavailableError struct {
	// Err is the underlying probe failure, if any.
	Err error
}

func (e *RuntimeUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("container runtime unavailable: %v", e.Err)
	}
	return "container runtime unavailable"
}

func (e *RuntimeUnavailableError) Unwrap() error {
	return e.Err
}

// NotRunningError reports that an operation requiring a running workload
// container (logs, shell) found none. Callers exit non-zero without
// attempting to attach.
type NotRunningError struct {
	// Container is the fixed workload container name.
	Container string
}

func (e *NotRunningError) Error() string {
	return fmt.Sprintf("container %s is not running", e.Container)
}
