package conpty

import (
	"io"
	"time"

	"goconpty/internal/platform"
)

// runPump is the background worker started by Run/RunAndWait, grounded on
// the teacher's daemon.readOutput goroutine and on
// _examples/my-take-dev-myT-x/internal/terminal/output_buffer.go's
// interval-driven flush shape, adapted from "batch and flush to a UI" to
// "poll a pipe on a cadence and append to a destructively-read buffer."
// One instance runs per Run call; it exits and sets process_ended when
// the pipe reports EOF (after waiting for the child to exit, so its exit
// code is known), or the child has exited and postEndDelay has elapsed
// with no further bytes.
func (s *Session) runPump(internalTimeDelta, postEndDelay time.Duration, pty platform.PTY, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 4096)
	var sawExitAt time.Time
	sawExit := false

	for {
		if internalTimeDelta > 0 {
			time.Sleep(internalTimeDelta)
		}

		n, err := pty.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.out = append(s.out, buf[:n]...)
			s.tail.Write(buf[:n])
			s.mu.Unlock()
			sawExit = false
		}
		if err == io.EOF {
			status, _ := pty.Wait()
			s.finishPump(status)
			return
		}

		if !sawExit {
			if exited, status, _ := pty.TryWait(); exited {
				sawExit = true
				sawExitAt = time.Now()
				if postEndDelay < 0 {
					s.finishPump(status)
					return
				}
			}
		} else if n == 0 && time.Since(sawExitAt) >= postEndDelay {
			if exited, status, _ := pty.TryWait(); exited {
				s.finishPump(status)
				return
			}
		}
	}
}

func (s *Session) finishPump(status platform.ExitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.processEnded = true
	s.exitCode = status.Code
	s.hasExitCode = true

	if s.killing {
		// kill() itself sets FORCED_TERMINATION; leave last_error alone.
		return
	}
	if s.exitCode == 0 {
		s.lastErr.set(RUNTIME_SUCCESS)
	} else {
		s.lastErr.set(RUNTIME_ERROR)
		s.log.Warn("child exited abnormally",
			"session", s.id, "exit_code", s.exitCode,
			"tail", s.tail.Last(s.tail.Count()))
	}
}
