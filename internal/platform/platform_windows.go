//go:build windows

package platform

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// conPTY is the Windows ConPTY implementation of PTY. Grounded on
// _examples/orlunix-wintmux/internal/pty/conpty_windows.go for the overall
// create-pipes/CreatePseudoConsole/CreateProcess flow, rebuilt on the
// golang.org/x/sys/windows typed bindings the way
// _examples/my-take-dev-myT-x/internal/terminal/conpty_windows.go does:
// windows.NewLazySystemDLL + NewProc only for the few APIs x/sys
// doesn't wrap (syscall_windows.go), windows.ReadFile/WriteFile/
// CreateProcess/CreatePipe for everything else.
type conPTY struct {
	mu       sync.Mutex
	hpc      hpcon
	hIn      windows.Handle // write end, host -> child stdin
	hOut     windows.Handle // read end, child stdout/stderr -> host
	cols     int
	rows     int
	process  windows.Handle
	pid      uint32
	spawned  bool
	closed   bool
}

func newPTY(cols, rows int) (PTY, error) {
	if !isConPtyAvailable() {
		return nil, fmt.Errorf("platform: ConPTY is not available on this version of Windows")
	}

	var ptyIn, cmdIn, cmdOut, ptyOut windows.Handle
	if err := windows.CreatePipe(&ptyIn, &cmdIn, nil, 0); err != nil {
		return nil, fmt.Errorf("platform: create input pipe: %w", err)
	}
	if err := windows.CreatePipe(&cmdOut, &ptyOut, nil, 0); err != nil {
		closeHandles(ptyIn, cmdIn)
		return nil, fmt.Errorf("platform: create output pipe: %w", err)
	}

	hpc, err := createPseudoConsole(coord{X: int16(cols), Y: int16(rows)}, ptyIn, ptyOut)
	if err != nil {
		closeHandles(ptyIn, cmdIn, cmdOut, ptyOut)
		return nil, fmt.Errorf("platform: %w", err)
	}
	// CreatePseudoConsole duplicates the handles it needs; the local ends
	// given to it can (and should) be closed immediately so a broken pipe
	// is detected promptly once the child exits.
	closeHandles(ptyIn, ptyOut)

	return &conPTY{hpc: hpc, hIn: cmdIn, hOut: cmdOut, cols: cols, rows: rows}, nil
}

func closeHandles(hs ...windows.Handle) {
	for _, h := range hs {
		if h != 0 && h != windows.InvalidHandle {
			windows.CloseHandle(h)
		}
	}
}

func (c *conPTY) Spawn(command, workdir string, env []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spawned {
		return ErrAlreadySpawned
	}

	cmdLinePtr, err := windows.UTF16PtrFromString(command)
	if err != nil {
		return fmt.Errorf("platform: command line: %w", err)
	}
	var workdirPtr *uint16
	if workdir != "" {
		workdirPtr, err = windows.UTF16PtrFromString(workdir)
		if err != nil {
			return fmt.Errorf("platform: workdir: %w", err)
		}
	}

	attrList, err := initializeProcThreadAttrList()
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	defer deleteProcThreadAttrList(attrList)
	if err := updateProcThreadAttrWithPseudoConsole(attrList, c.hpc); err != nil {
		return fmt.Errorf("platform: %w", err)
	}

	// STARTUPINFOEXW = STARTUPINFOW + a trailing attribute-list pointer;
	// x/sys/windows has no typed wrapper for the extended struct, so we
	// lay it out by hand the same way conpty_windows.go in both
	// _examples/orlunix-wintmux and _examples/my-take-dev-myT-x do.
	var si struct {
		windows.StartupInfo
		attributeList uintptr
	}
	si.Cb = uint32(unsafe.Sizeof(si))
	si.attributeList = uintptr(unsafe.Pointer(&attrList[0]))

	envBlock := buildEnvBlock(env)
	var flags uint32 = windows.EXTENDED_STARTUPINFO_PRESENT
	if envBlock != nil {
		flags |= windows.CREATE_UNICODE_ENVIRONMENT
	}

	var pi windows.ProcessInformation
	err = windows.CreateProcess(
		nil, cmdLinePtr, nil, nil, false,
		flags, envBlock, workdirPtr,
		&si.StartupInfo, &pi,
	)
	runtime.KeepAlive(envBlock)
	if err != nil {
		return fmt.Errorf("platform: CreateProcess: %w", err)
	}
	windows.CloseHandle(pi.Thread)

	c.process = pi.Process
	c.pid = pi.ProcessId
	c.spawned = true
	return nil
}

func (c *conPTY) Read(buf []byte) (int, error) {
	c.mu.Lock()
	h := c.hOut
	c.mu.Unlock()
	if h == 0 || h == windows.InvalidHandle {
		return 0, io.EOF
	}

	var avail uint32
	if err := windows.PeekNamedPipe(h, nil, nil, &avail, nil); err != nil {
		return 0, normalizeReadError(err)
	}
	if avail == 0 {
		return 0, nil
	}
	if int(avail) < len(buf) {
		buf = buf[:avail]
	}
	var n uint32
	err := windows.ReadFile(h, buf, &n, nil)
	return int(n), normalizeReadError(err)
}

func (c *conPTY) Write(data []byte) (int, error) {
	c.mu.Lock()
	h := c.hIn
	c.mu.Unlock()
	if h == 0 || h == windows.InvalidHandle {
		return 0, io.ErrClosedPipe
	}
	var n uint32
	err := windows.WriteFile(h, data, &n, nil)
	return int(n), normalizeWriteError(err)
}

func (c *conPTY) Resize(cols, rows int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("platform: resize on closed pseudo-console")
	}
	if err := resizePseudoConsole(c.hpc, coord{X: int16(cols), Y: int16(rows)}); err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	c.cols, c.rows = cols, rows
	return nil
}

func (c *conPTY) TryWait() (bool, ExitStatus, error) {
	c.mu.Lock()
	process, spawned := c.process, c.spawned
	c.mu.Unlock()
	if !spawned {
		return false, ExitStatus{}, nil
	}

	ret, err := windows.WaitForSingleObject(process, 0)
	if err != nil {
		return false, ExitStatus{}, fmt.Errorf("platform: WaitForSingleObject: %w", err)
	}
	if ret == uint32(windows.WAIT_TIMEOUT) {
		return false, ExitStatus{}, nil
	}

	var code uint32
	if err := windows.GetExitCodeProcess(process, &code); err != nil {
		return true, ExitStatus{}, fmt.Errorf("platform: GetExitCodeProcess: %w", err)
	}
	return true, ExitStatus{Code: code}, nil
}

func (c *conPTY) Wait() (ExitStatus, error) {
	c.mu.Lock()
	process, spawned := c.process, c.spawned
	c.mu.Unlock()
	if !spawned {
		return ExitStatus{}, ErrNoProcess
	}

	if _, err := windows.WaitForSingleObject(process, windows.INFINITE); err != nil {
		return ExitStatus{}, fmt.Errorf("platform: WaitForSingleObject: %w", err)
	}
	var code uint32
	if err := windows.GetExitCodeProcess(process, &code); err != nil {
		return ExitStatus{}, fmt.Errorf("platform: GetExitCodeProcess: %w", err)
	}
	return ExitStatus{Code: code}, nil
}

func (c *conPTY) Terminate() error {
	c.mu.Lock()
	process, spawned := c.process, c.spawned
	c.mu.Unlock()
	if !spawned {
		return ErrNoProcess
	}
	return windows.TerminateProcess(process, 1)
}

func (c *conPTY) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if c.hpc != 0 {
		closePseudoConsole(c.hpc)
	}
	if c.spawned && c.process != 0 {
		windows.TerminateProcess(c.process, 1)
		windows.CloseHandle(c.process)
	}
	closeHandles(c.hIn, c.hOut)
	return nil
}

// normalizeReadError turns the broken-pipe family of errors ConPTY
// produces once the child has exited into io.EOF so callers (the pump)
// can tell "nothing new" from "stream is over" without inspecting Win32
// codes directly. errors.Is is used rather than == since a wrapped
// windows.Errno still needs to compare equal to the sentinel.
func normalizeReadError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, windows.ERROR_BROKEN_PIPE),
		errors.Is(err, windows.ERROR_INVALID_HANDLE),
		errors.Is(err, windows.ERROR_HANDLE_EOF),
		errors.Is(err, windows.ERROR_NO_DATA):
		return io.EOF
	}
	return err
}

// normalizeWriteError maps the same family to io.ErrClosedPipe on the
// write side: a write past the point the child has exited is "the pipe
// is gone", not "end of stream".
func normalizeWriteError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, windows.ERROR_BROKEN_PIPE),
		errors.Is(err, windows.ERROR_INVALID_HANDLE),
		errors.Is(err, windows.ERROR_NO_DATA):
		return io.ErrClosedPipe
	}
	return err
}

func setHostVT(enable bool) error {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return fmt.Errorf("platform: GetStdHandle: %w", err)
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return fmt.Errorf("platform: GetConsoleMode: %w", err)
	}
	if enable {
		mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	} else {
		mode &^= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	}
	if err := windows.SetConsoleMode(h, mode); err != nil {
		return fmt.Errorf("platform: SetConsoleMode: %w", err)
	}
	return nil
}

func resetHostDisplay() error {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return fmt.Errorf("platform: GetStdHandle: %w", err)
	}
	const fullReset = "\x1bc"
	var n uint32
	return windows.WriteFile(h, []byte(fullReset), &n, nil)
}
