// Package platform is the narrow seam between the session controller and
// the host OS. It is the only package in this module allowed to touch OS
// primitives directly (§4.3): pseudo-console creation/resize, process
// creation, pipe read/write, process wait/terminate, handle close.
//
// PTY is implemented by platform_windows.go on Windows (a real ConPTY,
// grounded on _examples/orlunix-wintmux/internal/pty/conpty_windows.go and
// rebuilt on golang.org/x/sys/windows per
// _examples/my-take-dev-myT-x/internal/terminal/conpty_windows.go) and by
// platform_other.go everywhere else (an os/exec pipe stand-in used for
// development and for the module's tests; it is never a substitute
// for ConPTY in production and says so in its own doc comment).
package platform

import "errors"

// ErrNotSupported reports an operation a PTY backend cannot perform. No
// backend in this package returns it at present: the non-Windows dev
// backend treats Resize as a no-op that succeeds.
var ErrNotSupported = errors.New("platform: operation not supported by this backend")

// ErrAlreadySpawned is returned by Spawn when a process has already been
// attached to this PTY.
var ErrAlreadySpawned = errors.New("platform: process already spawned on this pseudo-console")

// ErrNoProcess is returned by Wait/Terminate when Spawn has not been
// called yet. TryWait instead reports (false, ExitStatus{}, nil).
var ErrNoProcess = errors.New("platform: no process attached")

// ExitStatus is the observed outcome of a terminated child process.
type ExitStatus struct {
	Code uint32
	// Killed is true when the child was brought down by Terminate rather
	// than exiting on its own. Only the non-Windows dev backend sets it;
	// the Windows backend always leaves it false and reports the exit code
	// TerminateProcess assigned (1).
	Killed bool
}

// PTY is a pseudo-console plus, once Spawn has been called, the child
// process attached to it. Creating a PTY and spawning a process are
// separate steps so the session controller can provision the console in
// its constructor and attach a process later, matching §4.5's
// Uninitialized→Idle→Running state machine. Each PTY accepts one Spawn;
// a session that runs a second child provisions a new PTY for it.
type PTY interface {
	// Spawn starts command (a full command line) attached to this
	// pseudo-console. Fails with ErrAlreadySpawned if a process was
	// already attached; otherwise it forwards process-creation failures
	// for the caller to interpret.
	Spawn(command, workdir string, env []string) error

	// Read drains available bytes from the console's output pipe into
	// buf without blocking indefinitely; returns (0, nil) when nothing
	// is currently available so the pump can poll on its own cadence.
	Read(buf []byte) (int, error)

	// Write sends bytes to the console's input pipe.
	Write(data []byte) (int, error)

	// Resize changes the pseudo-console's cell dimensions. Valid at any
	// time after creation, including while a child is running.
	Resize(cols, rows int) error

	// TryWait reports whether the spawned process has exited yet without
	// blocking. exited is false until Spawn has been called and the
	// process has terminated.
	TryWait() (exited bool, status ExitStatus, err error)

	// Wait blocks until the spawned process exits.
	Wait() (ExitStatus, error)

	// Terminate forcibly ends the spawned process.
	Terminate() error

	// Close releases the pseudo-console, pipes, and (if running) the
	// child process. Idempotent.
	Close() error
}

// New provisions a pseudo-console of the given size. On Windows this is a
// real ConPTY; elsewhere it is the os/exec based dev backend.
func New(cols, rows int) (PTY, error) {
	return newPTY(cols, rows)
}

// SetHostVT toggles ENABLE_VIRTUAL_TERMINAL_PROCESSING on the *host's* own
// console output handle — this is distinct from the pseudo-console given
// to the child process. §4.6's enablevts/disablevts/resetdisplay act on
// the host console, independent of session state, so this lives at
// package level rather than on PTY.
func SetHostVT(enable bool) error {
	return setHostVT(enable)
}

// ResetHostDisplay writes the VT "full reset" sequence to the host's
// console output.
func ResetHostDisplay() error {
	return resetHostDisplay()
}
