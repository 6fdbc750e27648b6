//go:build windows

package platform

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ConPTY has no public Win32 wrapper in golang.org/x/sys/windows as of this
// writing, so the handful of functions below are resolved the same way
// _examples/my-take-dev-myT-x/internal/terminal/conpty_syscall_windows.go
// and _examples/orlunix-wintmux/internal/pty/conpty_windows.go both do:
// NewLazySystemDLL + NewProc. Everything that x/sys/windows already
// exposes (CreateProcess, ReadFile, WriteFile, CreatePipe, handle/process
// wait) uses the typed bindings instead; see platform_windows.go.
var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCreatePseudoConsole          = kernel32.NewProc("CreatePseudoConsole")
	procResizePseudoConsole          = kernel32.NewProc("ResizePseudoConsole")
	procClosePseudoConsole           = kernel32.NewProc("ClosePseudoConsole")
	procInitializeProcThreadAttrList = kernel32.NewProc("InitializeProcThreadAttributeList")
	procDeleteProcThreadAttrList     = kernel32.NewProc("DeleteProcThreadAttributeList")
	procUpdateProcThreadAttribute    = kernel32.NewProc("UpdateProcThreadAttribute")
)

const (
	sOK                               = 0
	procThreadAttributePseudoConsole = 0x20016
)

// coord is the Win32 COORD structure, packed the way CreatePseudoConsole
// and ResizePseudoConsole expect it on the stack.
type coord struct {
	X int16
	Y int16
}

func (c coord) pack() uintptr {
	return uintptr(uint16(c.X)) | (uintptr(uint16(c.Y)) << 16)
}

// hpcon is an opaque pseudo-console handle (HPCON).
type hpcon windows.Handle

func isConPtyAvailable() bool {
	return procCreatePseudoConsole.Find() == nil
}

func createPseudoConsole(size coord, hIn, hOut windows.Handle) (hpcon, error) {
	var hpc hpcon
	ret, _, lastErr := procCreatePseudoConsole.Call(
		size.pack(),
		uintptr(hIn),
		uintptr(hOut),
		0,
		uintptr(unsafe.Pointer(&hpc)),
	)
	if ret != sOK {
		return 0, fmt.Errorf("CreatePseudoConsole: HRESULT 0x%x (%v)", ret, lastErr)
	}
	return hpc, nil
}

func resizePseudoConsole(hpc hpcon, size coord) error {
	ret, _, lastErr := procResizePseudoConsole.Call(uintptr(hpc), size.pack())
	if ret != sOK {
		return fmt.Errorf("ResizePseudoConsole: HRESULT 0x%x (%v)", ret, lastErr)
	}
	return nil
}

func closePseudoConsole(hpc hpcon) {
	procClosePseudoConsole.Call(uintptr(hpc))
}

// initializeProcThreadAttrList allocates and initializes a one-entry
// attribute list sized for carrying the pseudo-console attribute.
func initializeProcThreadAttrList() ([]byte, error) {
	var size uintptr
	_, _, firstErr := procInitializeProcThreadAttrList.Call(0, 1, 0, uintptr(unsafe.Pointer(&size)))
	if size == 0 {
		return nil, fmt.Errorf("InitializeProcThreadAttributeList size probe failed: %v", firstErr)
	}

	attrList := make([]byte, size)
	ret, _, lastErr := procInitializeProcThreadAttrList.Call(
		uintptr(unsafe.Pointer(&attrList[0])),
		1, 0,
		uintptr(unsafe.Pointer(&size)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("InitializeProcThreadAttributeList: %v", lastErr)
	}
	return attrList, nil
}

func updateProcThreadAttrWithPseudoConsole(attrList []byte, hpc hpcon) error {
	ret, _, lastErr := procUpdateProcThreadAttribute.Call(
		uintptr(unsafe.Pointer(&attrList[0])),
		0,
		procThreadAttributePseudoConsole,
		uintptr(hpc),
		unsafe.Sizeof(hpc),
		0, 0,
	)
	if ret == 0 {
		return fmt.Errorf("UpdateProcThreadAttribute: %v", lastErr)
	}
	return nil
}

func deleteProcThreadAttrList(attrList []byte) {
	if len(attrList) > 0 {
		procDeleteProcThreadAttrList.Call(uintptr(unsafe.Pointer(&attrList[0])))
	}
}

// buildEnvBlock converts env into a Windows double-null-terminated UTF-16
// environment block, or nil to inherit the parent's environment.
func buildEnvBlock(env []string) *uint16 {
	if len(env) == 0 {
		return nil
	}
	var block []uint16
	for _, e := range env {
		if e == "" {
			continue
		}
		block = append(block, utf16.Encode([]rune(e))...)
		block = append(block, 0)
	}
	if len(block) == 0 {
		return nil
	}
	block = append(block, 0)
	return &block[0]
}
