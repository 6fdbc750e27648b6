package conpty

import "time"

// Read waits for between minBytesToRead and maxBytesToRead raw bytes to
// accumulate (whichever comes first, bounded by waitFor), then returns
// them cooked per rawData/trailingSpaces and removes them from the
// session's output buffer. The min/max thresholds are measured against
// raw bytes actually produced by the child, before VT-stripping or
// trailing-space trimming are applied to the slice returned — cooking
// can only shrink a byte count, never the availability decision, so this
// keeps the wait condition well defined even though rawData=false
// shortens what is ultimately handed back.
func (s *Session) Read(minBytesToRead, maxBytesToRead int, waitFor, timeDelta time.Duration, rawData, trailingSpaces bool) (string, bool) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return "", false
	}
	s.mu.Unlock()

	if empty, errKind := validateByteRange(minBytesToRead, maxBytesToRead); errKind != NONE {
		s.lastErr.set(errKind)
		return "", false
	} else if empty {
		s.lastErr.set(NONE)
		return "", true
	}

	if timeDelta <= 0 {
		timeDelta = s.cfg.TimeDelta
	}
	deadline := timeoutDeadline(waitFor)

	for {
		s.mu.Lock()
		avail := len(s.out)
		ended := s.processEnded
		if avail >= minBytesToRead || ended || deadlineExceeded(deadline) {
			n := avail
			if maxBytesToRead > 0 && n > maxBytesToRead {
				n = maxBytesToRead
			}
			raw := append([]byte(nil), s.out[:n]...)
			s.out = s.out[n:]

			if s.stripInput && len(s.pendingEcho) > 0 && !rawData {
				if stripped, ok := stripEchoOnce(raw, s.pendingEcho); ok {
					raw = stripped
					s.pendingEcho = nil
				}
			}
			s.mu.Unlock()

			s.lastErr.set(NONE)
			return cookLine(string(raw), rawData, trailingSpaces), true
		}
		s.mu.Unlock()
		time.Sleep(timeDelta)
	}
}

// ReadLine returns the next complete newline-terminated line (without the
// terminator), or an empty string if none is available once waitFor
// elapses or the child has ended.
func (s *Session) ReadLine(waitFor, timeDelta time.Duration, rawData bool) (string, bool) {
	lines, ok := s.ReadLines(1, 1, waitFor, timeDelta, rawData, false)
	if !ok {
		return "", false
	}
	if len(lines) == 0 {
		return "", true
	}
	return lines[0], true
}

// ReadLines waits for between minLinesToRead and maxLinesToRead complete
// lines (bounded by waitFor), then removes and returns them cooked.
func (s *Session) ReadLines(minLinesToRead, maxLinesToRead int, waitFor, timeDelta time.Duration, rawData, trailingSpaces bool) ([]string, bool) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		s.lastErr.set(CONPTY_UNINITIALIZED)
		return nil, false
	}
	s.mu.Unlock()

	if empty, errKind := validateLineRange(minLinesToRead, maxLinesToRead); errKind != NONE {
		s.lastErr.set(errKind)
		return nil, false
	} else if empty {
		s.lastErr.set(NONE)
		return []string{}, true
	}

	if timeDelta <= 0 {
		timeDelta = s.cfg.TimeDelta
	}
	deadline := timeoutDeadline(waitFor)

	for {
		s.mu.Lock()
		lines, rawLens, rest := splitLines(s.out)
		ended := s.processEnded

		if len(lines) >= minLinesToRead || ended || deadlineExceeded(deadline) {
			n := len(lines)
			if maxLinesToRead > 0 && n > maxLinesToRead {
				n = maxLinesToRead
			}
			taken := lines[:n]

			consumed := 0
			for _, rl := range rawLens[:n] {
				consumed += rl
			}
			s.out = s.out[consumed:]
			if n == len(lines) {
				// leave rest (the trailing partial line, if any) untouched
				_ = rest
			}

			if s.stripInput && len(s.pendingEcho) > 0 && !rawData && len(taken) > 0 {
				if stripped, ok := stripEchoOnce([]byte(taken[0]), s.pendingEcho); ok {
					taken = append([]string(nil), taken...)
					taken[0] = string(stripped)
					s.pendingEcho = nil
				}
			}
			s.mu.Unlock()

			out := make([]string, len(taken))
			for i, l := range taken {
				out[i] = cookLine(l, rawData, trailingSpaces)
			}
			s.lastErr.set(NONE)
			return out, true
		}
		s.mu.Unlock()
		time.Sleep(timeDelta)
	}
}

// GetOutput is sugar for Read with trailingSpaces=false and a
// wait-for-some-output heuristic (min_bytes_to_read >= 1, a generous
// wait budget).
func (s *Session) GetOutput() (string, bool) {
	return s.Read(1, 0, s.cfg.WaitFor, s.cfg.TimeDelta, false, false)
}
