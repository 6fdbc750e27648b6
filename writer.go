package conpty

import (
	"time"

	"goconpty/internal/platform"
)

// Run starts command attached to the pseudo-console and returns
// immediately once the pump is running; it does not wait for output or
// completion. Calling it while a child is already running fails with
// PROCESS_ALREADY_RUNNING and no side effects, per §9's resolution of
// that open question.
func (s *Session) Run(command string, stripInput bool, waitFor, timeDelta, internalTimeDelta, postEndDelay time.Duration) bool {
	s.mu.Lock()

	if !s.initialized {
		s.mu.Unlock()
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	if s.running {
		s.mu.Unlock()
		s.lastErr.set(PROCESS_ALREADY_RUNNING)
		return false
	}
	if errKind := validateCommand(command); errKind != NONE {
		s.mu.Unlock()
		s.lastErr.set(errKind)
		return false
	}

	pty := s.pty
	if s.everRan {
		// A PTY accepts a single Spawn; a previous child has ended, so
		// provision a fresh pseudo-console for the next one.
		fresh, err := platform.New(s.width, s.height)
		if err != nil {
			s.mu.Unlock()
			s.lastErr.set(CONPTY_UNINITIALIZED)
			s.log.Warn("pseudo-console re-provisioning failed", "session", s.id, "error", err)
			return false
		}
		pty.Close()
		s.pty = fresh
		pty = fresh
	}
	s.mu.Unlock()

	if err := pty.Spawn(command, "", nil); err != nil {
		s.lastErr.set(RUN_PROGRAM_NOT_FOUND)
		s.log.Warn("spawn failed", "session", s.id, "error", err)
		return false
	}

	s.mu.Lock()
	s.running = true
	s.everRan = true
	s.processEnded = false
	s.killing = false
	s.stripInput = stripInput
	s.inputSent = true
	s.out = nil
	s.pendingEcho = nil
	s.hasExitCode = false
	done := make(chan struct{})
	s.pumpDone = done
	s.mu.Unlock()

	if internalTimeDelta <= 0 {
		internalTimeDelta = s.cfg.InternalTimeDelta
	}
	if postEndDelay == 0 {
		postEndDelay = s.cfg.PostEndDelay
	}
	go s.runPump(internalTimeDelta, postEndDelay, pty, done)

	s.lastErr.set(NONE)
	s.log.Debug("child started", "session", s.id, "command", command)
	return true
}

// RunAndWait is Run followed by WaitToComplete with an unbounded budget.
func (s *Session) RunAndWait(command string, stripInput bool, waitFor, timeDelta, internalTimeDelta, postEndDelay time.Duration) bool {
	if !s.Run(command, stripInput, waitFor, timeDelta, internalTimeDelta, postEndDelay) {
		return false
	}
	return s.WaitToComplete(-1, timeDelta)
}

// WaitToComplete blocks until the child has ended or waitFor elapses.
func (s *Session) WaitToComplete(waitFor, timeDelta time.Duration) bool {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	done := s.pumpDone
	s.mu.Unlock()

	if done == nil {
		s.lastErr.set(NO_PROCESS_FOUND)
		return false
	}
	if timeDelta <= 0 {
		timeDelta = s.cfg.TimeDelta
	}

	deadline := timeoutDeadline(waitFor)
	for {
		select {
		case <-done:
			s.lastErr.set(NONE)
			return true
		default:
		}
		if deadlineExceeded(deadline) {
			s.lastErr.set(NONE)
			return false
		}
		time.Sleep(timeDelta)
	}
}

// Kill requests forced termination of the running child. It sets
// FORCED_TERMINATION if it actually terminated a running child,
// RUNTIME_SUCCESS if the child had already exited by the time of the
// call, or NO_PROCESS_FOUND if none ever ran.
func (s *Session) Kill() bool {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	if !s.everRan {
		s.mu.Unlock()
		s.lastErr.set(NO_PROCESS_FOUND)
		return false
	}
	if !s.running {
		s.mu.Unlock()
		s.lastErr.set(RUNTIME_SUCCESS)
		return true
	}
	s.killing = true
	pty := s.pty
	done := s.pumpDone
	s.mu.Unlock()

	if err := pty.Terminate(); err != nil {
		s.log.Warn("terminate failed", "session", s.id, "error", err)
	}
	if done != nil {
		<-done
	}
	s.lastErr.set(FORCED_TERMINATION)
	return true
}

// Write sends data to the child's input pipe. waittillsent=true blocks
// until all bytes have been flushed out of the user-space buffer into
// the pipe; stripinput tracking records these bytes so a reader-side
// cook can suppress their echo from visible output.
func (s *Session) Write(data string, waitFor, timeDelta time.Duration, waitTillSent bool) bool {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return false
	}
	if !s.running {
		s.mu.Unlock()
		s.lastErr.set(NO_PROCESS_FOUND)
		return false
	}
	pty := s.pty
	stripInput := s.stripInput
	s.mu.Unlock()

	if data == "" {
		s.lastErr.set(NONE)
		return true
	}

	payload := []byte(data)
	if waitTillSent {
		s.mu.Lock()
		s.inputSent = false
		s.mu.Unlock()
	}
	if _, err := pty.Write(payload); err != nil {
		s.lastErr.set(NO_PROCESS_FOUND)
		return false
	}

	s.mu.Lock()
	s.inputSent = true
	if stripInput {
		// Replace rather than append: pendingEcho tracks the most recent
		// write's echo only. Appending onto a prior write's payload that
		// never matched (e.g. a line-ending mismatch) would grow this
		// unboundedly and risk stripping a stale prefix out of later
		// output.
		s.pendingEcho = append([]byte(nil), payload...)
	}
	s.mu.Unlock()

	s.lastErr.set(NONE)
	return true
}

// WriteLine writes data followed by a CRLF line terminator, the sequence
// ConPTY expects for a submitted line of console input.
func (s *Session) WriteLine(data string, waitFor, timeDelta time.Duration, waitTillSent bool) bool {
	return s.Write(data+"\r\n", waitFor, timeDelta, waitTillSent)
}

// WriteLines writes each element of data as a separate line, in order.
func (s *Session) WriteLines(data []string, waitFor, timeDelta time.Duration, waitTillSent bool) bool {
	for _, line := range data {
		if !s.WriteLine(line, waitFor, timeDelta, waitTillSent) {
			return false
		}
	}
	return true
}

// SendInput is a synonym for Write.
func (s *Session) SendInput(data string, waitFor, timeDelta time.Duration, waitTillSent bool) bool {
	return s.Write(data, waitFor, timeDelta, waitTillSent)
}

// Close terminates any running child, stops the pump, and releases the
// pseudo-console. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return nil
	}
	pty := s.pty
	running := s.running
	done := s.pumpDone
	s.killing = running
	s.mu.Unlock()

	if running {
		pty.Terminate()
		if done != nil {
			<-done
		}
	}
	return pty.Close()
}
