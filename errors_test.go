package conpty

import "testing"

func TestErrorString(t *testing.T) {
	cases := []struct {
		e    Error
		want string
	}{
		{NONE, "NONE"},
		{CONPTY_UNINITIALIZED, "CONPTY_UNINITIALIZED"},
		{FORCED_TERMINATION, "FORCED_TERMINATION"},
		{Error(-1), "UNKNOWN_ERROR"},
		{Error(len(names) + 5), "UNKNOWN_ERROR"},
	}
	for _, c := range cases {
		if got := c.e.String(); got != c.want {
			t.Errorf("Error(%d).String() = %q, want %q", c.e, got, c.want)
		}
	}
}

func TestLastErrorCellReadAndClear(t *testing.T) {
	var c lastErrorCell

	if got := c.readAndClear(); got != NONE {
		t.Fatalf("initial readAndClear() = %v, want NONE", got)
	}

	c.set(RUN_PROGRAM_NOT_FOUND)
	if got := c.readAndClear(); got != RUN_PROGRAM_NOT_FOUND {
		t.Fatalf("readAndClear() = %v, want RUN_PROGRAM_NOT_FOUND", got)
	}
	// A second consecutive read with no intervening write yields NONE,
	// per §8 invariant 3.
	if got := c.readAndClear(); got != NONE {
		t.Fatalf("second readAndClear() = %v, want NONE", got)
	}
}

func TestLastErrorCellOverwrite(t *testing.T) {
	var c lastErrorCell
	c.set(COMMAND_NOT_A_STRING)
	c.set(NONE)
	if got := c.readAndClear(); got != NONE {
		t.Fatalf("readAndClear() = %v, want NONE (last write wins)", got)
	}
}
