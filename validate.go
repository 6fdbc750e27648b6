package conpty

import "strings"

// Limits from §4.2. A typed Go API makes the *_NOT_AN_INT / *_NOT_A_NUMBER /
// *_NOT_A_BOOLEAN / DATA_NOT_A_LIST_OF_STRINGS kinds unreachable here (the
// compiler already enforces those types via int/time.Duration/bool/[]string
// parameters); per §9's design note these are retired rather than kept
// around a validator nothing can call, but stay in the Error enum since
// §7 names them as part of the closed enumeration callers may still switch
// on.
const (
	maxProgramNameLen = 32657
	maxCommandLen     = 32766
	minDimension      = 1
	maxDimension      = 32767
)

// clampDimension clamps a requested width/height into [1, 32767], per §3's
// invariant that width and height are always integers in that range.
func clampDimension(n int) int {
	if n < minDimension {
		return minDimension
	}
	if n > maxDimension {
		return maxDimension
	}
	return n
}

// validateCommand checks program-name and full-command length limits and
// rejects an empty command. Returns the zero Error on success.
func validateCommand(command string) Error {
	if strings.TrimSpace(command) == "" {
		return COMMAND_NOT_A_STRING
	}
	if len(command) > maxCommandLen {
		return COMMAND_LONGER_THAN_32766_CHARS
	}
	programName := command
	if i := strings.IndexByte(command, ' '); i >= 0 {
		programName = command[:i]
	}
	if len(programName) > maxProgramNameLen {
		return RUN_PROGRAM_NAME_TOO_LONG
	}
	return NONE
}

// validateByteRange enforces §4.2's min/max byte-count rule: min > max is
// an error; min <= 0 and max == 0 is the "return empty immediately" case
// signalled by the empty bool.
func validateByteRange(minBytes, maxBytes int) (empty bool, err Error) {
	if maxBytes > 0 && minBytes > maxBytes {
		return false, MIN_MORE_THAN_MAX_READ_BYTES
	}
	if minBytes <= 0 && maxBytes == 0 {
		return true, NONE
	}
	return false, NONE
}

// validateLineRange is validateByteRange's line-counted counterpart.
func validateLineRange(minLines, maxLines int) (empty bool, err Error) {
	if maxLines > 0 && minLines > maxLines {
		return false, MIN_MORE_THAN_MAX_READ_LINES
	}
	if minLines <= 0 && maxLines == 0 {
		return true, NONE
	}
	return false, NONE
}
