package conpty

import (
	"strings"

	"goconpty/internal/vt"
)

// stripVT removes VT/ANSI escape sequences from s, reusing the teacher's
// regex-based internal/vt.Strip (see SPEC_FULL.md's Domain Stack section
// for why a full VT-emulation library is not reached for here instead).
func stripVT(s string) string {
	return vt.Strip(s)
}

// trimTrailingSpaces removes run-length trailing spaces ConPTY pads a
// wrapped line with to fill it out to the console width.
func trimTrailingSpaces(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}

// stripEchoOnce deletes the first occurrence of echo from raw and reports
// whether it found (and removed) one. Used by cooking to suppress a
// single round of input echo per write, per §4.6's "stripinput" rule:
// tracking bytes written and deleting a matching occurrence from the
// output buffer during normalization.
func stripEchoOnce(raw []byte, echo []byte) ([]byte, bool) {
	if len(echo) == 0 {
		return raw, false
	}
	idx := indexBytes(raw, echo)
	if idx < 0 {
		return raw, false
	}
	out := make([]byte, 0, len(raw)-len(echo))
	out = append(out, raw[:idx]...)
	out = append(out, raw[idx+len(echo):]...)
	return out, true
}

func indexBytes(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// cookLine applies raw-vs-cooked normalization to a line split out of the
// destructive output buffer: VT stripping unless raw, \r\n normalized to
// \n unless raw, then trailing-space trimming of each line unless raw or
// trailingSpaces is requested. raw=true disables all three, matching the
// "raw disables stripping" resolution of the open question in §9. Applied
// identically to a single ReadLines-split line and to Read's whole
// multi-line blob, so the two reader paths normalize line endings the
// same way.
func cookLine(line string, raw, trailingSpaces bool) string {
	if raw {
		return line
	}
	line = stripVT(line)
	line = strings.ReplaceAll(line, "\r\n", "\n")
	line = strings.ReplaceAll(line, "\r", "")
	if !trailingSpaces {
		parts := strings.Split(line, "\n")
		for i, p := range parts {
			parts[i] = trimTrailingSpaces(p)
		}
		line = strings.Join(parts, "\n")
	}
	return line
}

// splitLines scans data for '\n'-terminated lines, stripping a preceding
// '\r' from each. It returns the complete lines, the raw byte length each
// line consumed out of data (the line's own bytes plus its terminating
// '\n', whether or not a '\r' preceded it), and whatever trailing bytes
// remain after the last newline (the "partial" line). Callers that take
// fewer than all the returned lines must sum rawLens rather than measure
// the (already \r-stripped) cooked line lengths, or they undercount by one
// byte per CRLF-terminated line and leave a stray '\n' in the buffer.
// Mirrors the newline-splitting half of the teacher's
// scrollback.Buffer.Write — adapted here from "commit into a capped ring"
// to "hand back to a destructive caller-owned buffer" since readers
// consume bytes, not a retained scrollback.
func splitLines(data []byte) (lines []string, rawLens []int, rest []byte) {
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			line := data[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, string(line))
			rawLens = append(rawLens, i+1-start)
			start = i + 1
		}
	}
	rest = data[start:]
	return lines, rawLens, rest
}
