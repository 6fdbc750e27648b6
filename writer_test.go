package conpty

import (
	"strings"
	"testing"
	"time"
)

func TestWriteToNoProcessFails(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if s.Write("hello", -1, 0, false) {
		t.Fatal("Write before any Run should fail")
	}
	if got := s.LastError(); got != NO_PROCESS_FOUND {
		t.Fatalf("LastError() = %v, want NO_PROCESS_FOUND", got)
	}
}

func TestWriteEmptyStringIsNoOp(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.Run("cat", false, -1, 0, 5*time.Millisecond, 0) {
		t.Fatalf("Run failed: %v", s.LastError())
	}
	if !s.Write("", -1, 0, true) {
		t.Fatalf("Write(\"\") failed: %v", s.LastError())
	}
	if got := s.LastError(); got != NONE {
		t.Fatalf("LastError() = %v, want NONE", got)
	}
	s.Kill()
}

func TestWriteLinesSendsEachLine(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.Run("cat", false, -1, 0, 5*time.Millisecond, 0) {
		t.Fatalf("Run failed: %v", s.LastError())
	}
	if !s.WriteLines([]string{"one", "two", "three"}, -1, 0, true) {
		t.Fatalf("WriteLines failed: %v", s.LastError())
	}

	lines, ok := s.ReadLines(3, 3, 2*time.Second, 5*time.Millisecond, false, false)
	if !ok {
		t.Fatalf("ReadLines failed: %v", s.LastError())
	}
	want := []string{"one", "two", "three"}
	for i := range want {
		if i >= len(lines) || lines[i] != want[i] {
			t.Errorf("lines = %v, want %v", lines, want)
			break
		}
	}
	s.Kill()
}

func TestStripInputKeepsChildReply(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.Run(`sh -c 'read line; printf "%s\n" "$line"'`, true, -1, 0, 5*time.Millisecond, 0) {
		t.Fatalf("Run failed: %v", s.LastError())
	}
	if !s.WriteLine("secret", -1, 0, true) {
		t.Fatalf("WriteLine failed: %v", s.LastError())
	}

	out, ok := s.ReadLine(2*time.Second, 5*time.Millisecond, false)
	if !ok {
		t.Fatalf("ReadLine failed: %v", s.LastError())
	}
	// A plain pipe never echoes input, so the payload the child itself
	// writes back ("secret") is legitimate content, not echo. ReadLine
	// compares the pending echo ("secret\r\n", as WriteLine sent it)
	// against the line after its line ending has been removed, finds no
	// match, and so the child's reply comes through whole.
	if !strings.Contains(out, "secret") {
		t.Fatalf("ReadLine() = %q, want it to contain the child's reply", out)
	}
	s.WaitToComplete(2*time.Second, 5*time.Millisecond)
}

func TestSendInputIsSynonymForWrite(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.Run("cat", false, -1, 0, 5*time.Millisecond, 0) {
		t.Fatalf("Run failed: %v", s.LastError())
	}
	if !s.SendInput("ping\n", -1, 0, true) {
		t.Fatalf("SendInput failed: %v", s.LastError())
	}
	line, ok := s.ReadLine(2*time.Second, 5*time.Millisecond, false)
	if !ok || line != "ping" {
		t.Fatalf("ReadLine() = (%q,%v), want (%q,true)", line, ok, "ping")
	}
	s.Kill()
}

func TestWaitToCompleteTimesOutOnLongRunningChild(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.Run("sleep 5", false, -1, 0, 0, 0) {
		t.Fatalf("Run failed: %v", s.LastError())
	}
	if s.WaitToComplete(30*time.Millisecond, 5*time.Millisecond) {
		t.Fatal("WaitToComplete should time out while the child is still sleeping")
	}
	if !s.IsRunning() {
		t.Fatal("child should still be running after the wait times out")
	}
	s.Kill()
}

func TestCloseTerminatesRunningChild(t *testing.T) {
	s := NewSize(80, 24)
	if !s.Run("sleep 5", false, -1, 0, 0, 0) {
		t.Fatalf("Run failed: %v", s.LastError())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() should be a no-op, got: %v", err)
	}
}
