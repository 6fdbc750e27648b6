package conpty

import "sync"

// Error is the closed set of diagnostic kinds a Session can report. Every
// public Session method sets exactly one Error value before returning,
// NONE on success, the most specific diagnostic otherwise.
type Error int

// The canonical error kinds. Names match the spec the package implements
// so tooling and documentation can cross-reference them directly.
const (
	NONE Error = iota
	CONPTY_UNINITIALIZED
	CONSOLE_WIDTH_NOT_INT
	CONSOLE_HEIGHT_NOT_INT
	COMMAND_NOT_A_STRING
	RUN_PROGRAM_NOT_FOUND
	RUN_PROGRAM_NAME_TOO_LONG
	COMMAND_LONGER_THAN_32766_CHARS
	STRIPINPUT_NOT_A_BOOLEAN
	WAITFOR_NOT_A_NUMBER
	TIMEDELTA_NOT_A_NUMBER
	INTERNALTIMEDELTA_NOT_A_NUMBER
	POSTENDDELAY_NOT_A_NUMBER
	WAITTILLSENT_NOT_A_BOOLEAN
	RAWDATA_NOT_A_BOOLEAN
	TRAILINGSPACES_NOT_A_BOOLEAN
	MAX_READ_BYTES_NOT_AN_INT
	MIN_READ_BYTES_NOT_AN_INT
	MIN_MORE_THAN_MAX_READ_BYTES
	MAX_READ_LINES_NOT_AN_INT
	MIN_READ_LINES_NOT_AN_INT
	MIN_MORE_THAN_MAX_READ_LINES
	DATA_NOT_A_STRING
	DATA_NOT_A_LIST_OF_STRINGS
	NO_PROCESS_FOUND
	PROCESS_ALREADY_RUNNING
	RUNTIME_SUCCESS
	RUNTIME_ERROR
	FORCED_TERMINATION
)

// names mirrors the constant list above; keep both in sync.
var names = [...]string{
	"NONE",
	"CONPTY_UNINITIALIZED",
	"CONSOLE_WIDTH_NOT_INT",
	"CONSOLE_HEIGHT_NOT_INT",
	"COMMAND_NOT_A_STRING",
	"RUN_PROGRAM_NOT_FOUND",
	"RUN_PROGRAM_NAME_TOO_LONG",
	"COMMAND_LONGER_THAN_32766_CHARS",
	"STRIPINPUT_NOT_A_BOOLEAN",
	"WAITFOR_NOT_A_NUMBER",
	"TIMEDELTA_NOT_A_NUMBER",
	"INTERNALTIMEDELTA_NOT_A_NUMBER",
	"POSTENDDELAY_NOT_A_NUMBER",
	"WAITTILLSENT_NOT_A_BOOLEAN",
	"RAWDATA_NOT_A_BOOLEAN",
	"TRAILINGSPACES_NOT_A_BOOLEAN",
	"MAX_READ_BYTES_NOT_AN_INT",
	"MIN_READ_BYTES_NOT_AN_INT",
	"MIN_MORE_THAN_MAX_READ_BYTES",
	"MAX_READ_LINES_NOT_AN_INT",
	"MIN_READ_LINES_NOT_AN_INT",
	"MIN_MORE_THAN_MAX_READ_LINES",
	"DATA_NOT_A_STRING",
	"DATA_NOT_A_LIST_OF_STRINGS",
	"NO_PROCESS_FOUND",
	"PROCESS_ALREADY_RUNNING",
	"RUNTIME_SUCCESS",
	"RUNTIME_ERROR",
	"FORCED_TERMINATION",
}

func (e Error) String() string {
	if e < 0 || int(e) >= len(names) {
		return "UNKNOWN_ERROR"
	}
	return names[e]
}

// lastErrorCell implements the read-and-clear semantics of §4.1: a read
// returns the stored value and atomically resets it to NONE unless a
// subsequent write races it first. Every public Session method must call
// set, even on success (set(NONE)), so stale diagnostics never survive
// into the next unrelated call.
type lastErrorCell struct {
	mu  sync.Mutex
	val Error
}

func (c *lastErrorCell) set(e Error) {
	c.mu.Lock()
	c.val = e
	c.mu.Unlock()
}

// readAndClear returns the current value and swaps the cell back to NONE.
func (c *lastErrorCell) readAndClear() Error {
	c.mu.Lock()
	v := c.val
	c.val = NONE
	c.mu.Unlock()
	return v
}
