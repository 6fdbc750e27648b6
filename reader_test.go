package conpty

import (
	"testing"
	"time"
)

func TestReadRespectsMaxBytes(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.RunAndWait(`printf 'abcdefghij'`, false, -1, 0, 5*time.Millisecond, 50*time.Millisecond) {
		t.Fatalf("RunAndWait failed: %v", s.LastError())
	}

	first, ok := s.Read(1, 4, 200*time.Millisecond, 5*time.Millisecond, false, false)
	if !ok {
		t.Fatalf("Read failed: %v", s.LastError())
	}
	if first != "abcd" {
		t.Fatalf("Read(1,4) = %q, want %q", first, "abcd")
	}

	rest, ok := s.Read(1, 0, 200*time.Millisecond, 5*time.Millisecond, false, false)
	if !ok {
		t.Fatalf("second Read failed: %v", s.LastError())
	}
	if rest != "efghij" {
		t.Fatalf("Read(1,0) remainder = %q, want %q", rest, "efghij")
	}
}

func TestReadIsDestructive(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.RunAndWait(`printf 'one-shot'`, false, -1, 0, 5*time.Millisecond, 50*time.Millisecond) {
		t.Fatalf("RunAndWait failed: %v", s.LastError())
	}

	out, ok := s.Read(1, 0, 200*time.Millisecond, 5*time.Millisecond, false, false)
	if !ok || out != "one-shot" {
		t.Fatalf("Read = (%q,%v), want (%q,true)", out, ok, "one-shot")
	}

	again, ok := s.Read(1, 0, 50*time.Millisecond, 5*time.Millisecond, false, false)
	if !ok || again != "" {
		t.Fatalf("second Read = (%q,%v), want (\"\",true) once consumed", again, ok)
	}
}

func TestReadCookedStripsVT(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.RunAndWait(`printf '\033[31mred\033[0m'`, false, -1, 0, 5*time.Millisecond, 50*time.Millisecond) {
		t.Fatalf("RunAndWait failed: %v", s.LastError())
	}

	cooked, ok := s.Read(1, 0, 200*time.Millisecond, 5*time.Millisecond, false, false)
	if !ok {
		t.Fatalf("Read failed: %v", s.LastError())
	}
	if cooked != "red" {
		t.Fatalf("cooked Read = %q, want %q", cooked, "red")
	}
}

func TestReadRawPreservesEscapeSequences(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.RunAndWait(`printf '\033[31mred\033[0m'`, false, -1, 0, 5*time.Millisecond, 50*time.Millisecond) {
		t.Fatalf("RunAndWait failed: %v", s.LastError())
	}

	raw, ok := s.Read(1, 0, 200*time.Millisecond, 5*time.Millisecond, true, false)
	if !ok {
		t.Fatalf("Read failed: %v", s.LastError())
	}
	if raw != "\x1b[31mred\x1b[0m" {
		t.Fatalf("raw Read = %q, want escape sequences preserved", raw)
	}
}

func TestGetOutputIsSugarForRead(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.RunAndWait(`printf 'hi there'`, false, -1, 0, 5*time.Millisecond, 50*time.Millisecond) {
		t.Fatalf("RunAndWait failed: %v", s.LastError())
	}

	out, ok := s.GetOutput()
	if !ok || out != "hi there" {
		t.Fatalf("GetOutput() = (%q,%v), want (%q,true)", out, ok, "hi there")
	}
}

func TestReadLineReturnsEmptyWhenNoneAvailable(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if !s.RunAndWait("true", false, -1, 0, 5*time.Millisecond, 20*time.Millisecond) {
		t.Fatalf("RunAndWait failed: %v", s.LastError())
	}

	line, ok := s.ReadLine(50*time.Millisecond, 5*time.Millisecond, false)
	if !ok {
		t.Fatalf("ReadLine failed: %v", s.LastError())
	}
	if line != "" {
		t.Fatalf("ReadLine() = %q, want empty string", line)
	}
}

func TestReadInvalidRangeSetsError(t *testing.T) {
	s := NewSize(80, 24)
	defer s.Close()

	if _, ok := s.Read(10, 5, 0, 0, false, false); ok {
		t.Fatal("Read with min > max should fail")
	}
	if got := s.LastError(); got != MIN_MORE_THAN_MAX_READ_BYTES {
		t.Fatalf("LastError() = %v, want MIN_MORE_THAN_MAX_READ_BYTES", got)
	}

	if _, ok := s.ReadLines(5, 2, 0, 0, false, false); ok {
		t.Fatal("ReadLines with min > max should fail")
	}
	if got := s.LastError(); got != MIN_MORE_THAN_MAX_READ_LINES {
		t.Fatalf("LastError() = %v, want MIN_MORE_THAN_MAX_READ_LINES", got)
	}
}
