// Package conpty drives a Windows pseudo-console (ConPTY) to launch a
// child console process, stream its terminal I/O, observe its lifecycle,
// and expose a synchronous, thread-safe facade for programmatic
// interaction with console programs.
//
// Grounded on _examples/orlunix-wintmux/internal/daemon.Daemon: one
// pseudo-console, one background pump, one mutex per session, minus the
// IPC/TCP layer — this package is an in-process library, so callers talk
// to a *Session directly instead of over a socket.
package conpty

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"goconpty/internal/config"
	"goconpty/internal/diagtail"
	"goconpty/internal/platform"
)

// Session is a single pseudo-console plus, once Run has been called, the
// child process attached to it. At most one child is active per Session
// at a time (§3); Run may be called again once the previous child has
// ended.
type Session struct {
	mu  sync.Mutex
	id  uuid.UUID
	log *slog.Logger
	cfg config.Defaults

	initialized bool
	width       int
	height      int

	pty platform.PTY

	running      bool
	processEnded bool
	everRan      bool
	exitCode     uint32
	hasExitCode  bool
	killing      bool

	inputSent   bool
	stripInput  bool
	pendingEcho []byte

	out []byte // destructive output buffer; first reader to consume a byte removes it

	// tail retains the last few lines of raw output independent of what
	// readers have consumed, purely so a failure can be logged with
	// context; it is never read back by the library itself.
	tail *diagtail.Buffer

	lastErr lastErrorCell

	pumpDone chan struct{}
}

// New constructs a Session at the configured default dimensions (80x24
// unless overridden by ~/.goconpty/config.yaml).
func New() *Session {
	d, _ := config.Load()
	return newSession(d.Width, d.Height)
}

// NewSize constructs a Session at the given pseudo-console dimensions,
// clamped to [1, 32767] per §3.
func NewSize(width, height int) *Session {
	return newSession(width, height)
}

func newSession(width, height int) *Session {
	width = clampDimension(width)
	height = clampDimension(height)

	d, _ := config.Load()
	s := &Session{
		id:   uuid.New(),
		log:  slog.Default(),
		cfg:  d,
		tail: diagtail.New(50),
	}

	pc, err := platform.New(width, height)
	if err != nil {
		// Go's static typing makes CONSOLE_WIDTH_NOT_INT/HEIGHT_NOT_INT
		// unreachable here (width/height are already int); a platform-level
		// provisioning failure is reported the same way the spec treats any
		// other uninitialized-construction outcome, leaving initialized
		// false so every later call reports CONPTY_UNINITIALIZED.
		s.lastErr.set(CONPTY_UNINITIALIZED)
		s.log.Error("pseudo-console provisioning failed", "session", s.id, "error", err)
		return s
	}

	s.pty = pc
	s.width = width
	s.height = height
	s.initialized = true
	s.lastErr.set(NONE)
	s.log.Debug("session initialized", "session", s.id, "width", width, "height", height)
	return s
}

// IsInitialized reports whether ConPTY and its pipes were successfully
// provisioned.
func (s *Session) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// IsRunning reports the session's running flag: set by Run and cleared
// when the output pump finishes, which follows the child's exit by up to
// postEndDelay while remaining output drains. It does not query the OS on
// each call.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ProcessEnded reports whether a child was ever started and has since
// exited, by any cause.
func (s *Session) ProcessEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processEnded
}

// InputSent reports whether every byte of the most recent write/sendinput
// call has been flushed to the input pipe.
func (s *Session) InputSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputSent
}

// Width returns the current pseudo-console width, or 0 if uninitialized.
func (s *Session) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Height returns the current pseudo-console height, or 0 if uninitialized.
func (s *Session) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// ExitCode returns the captured exit code and whether one exists yet.
// Querying it while uninitialized sets CONPTY_UNINITIALIZED; while no
// child has ever run sets NO_PROCESS_FOUND; while the child is still
// running sets PROCESS_ALREADY_RUNNING — each returns (0, false). Once
// the child has ended, it re-derives the same diagnostic a natural/forced
// exit would have set (RUNTIME_SUCCESS, RUNTIME_ERROR, or
// FORCED_TERMINATION), per §4.5/§8 invariant 5: reading exitcode after a
// child has ended must still report what happened to it, not NONE.
func (s *Session) ExitCode() (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return 0, false
	}
	if !s.everRan {
		s.lastErr.set(NO_PROCESS_FOUND)
		return 0, false
	}
	if s.running {
		s.lastErr.set(PROCESS_ALREADY_RUNNING)
		return 0, false
	}
	switch {
	case s.killing:
		s.lastErr.set(FORCED_TERMINATION)
	case s.exitCode == 0:
		s.lastErr.set(RUNTIME_SUCCESS)
	default:
		s.lastErr.set(RUNTIME_ERROR)
	}
	return s.exitCode, s.hasExitCode
}

// LastError returns the most recently set diagnostic and resets the cell
// to NONE, per §4.1's read-and-clear semantics. A second consecutive call
// with no intervening operation always yields NONE.
func (s *Session) LastError() Error {
	return s.lastErr.readAndClear()
}

// Resize updates the pseudo-console's cell dimensions, valid at any time
// after initialization including while a child runs.
func (s *Session) Resize(width, height int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	width = clampDimension(width)
	height = clampDimension(height)
	if err := s.pty.Resize(width, height); err != nil {
		s.log.Warn("resize failed", "session", s.id, "error", err)
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	s.width, s.height = width, height
	s.lastErr.set(NONE)
	return true
}

// EnableVTs turns on ENABLE_VIRTUAL_TERMINAL_PROCESSING on the host
// console, independent of session state provided the session is
// initialized.
func (s *Session) EnableVTs() bool { return s.toggleHostVT(true) }

// DisableVTs turns off ENABLE_VIRTUAL_TERMINAL_PROCESSING on the host
// console.
func (s *Session) DisableVTs() bool { return s.toggleHostVT(false) }

func (s *Session) toggleHostVT(enable bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	if err := platform.SetHostVT(enable); err != nil {
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	s.lastErr.set(NONE)
	return true
}

// ResetDisplay writes a full VT reset sequence to the host console.
func (s *Session) ResetDisplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	if err := platform.ResetHostDisplay(); err != nil {
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	s.lastErr.set(NONE)
	return true
}

// timeoutDeadline converts a waitFor duration into an absolute
// deadline; a negative waitfor means unbounded (zero time.Time).
func timeoutDeadline(waitFor time.Duration) time.Time {
	if waitFor < 0 {
		return time.Time{}
	}
	return time.Now().Add(waitFor)
}

func deadlineExceeded(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}
