//go:build windows
// +build windows

package main

import (
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procAttachConsole = modkernel32.NewProc("AttachConsole")
	procAllocConsole  = modkernel32.NewProc("AllocConsole")
	procGetConsoleWnd = modkernel32.NewProc("GetConsoleWindow")
)

// prepareConsole ensures that the standard outputs are bound to a console.
// When the unlocker is built with "-ldflags -H=windowsgui" it starts
// without one, which suits the hidden helper but not the other commands.
//
// If attachOnly is true the parent's console is used when there is one
// and nothing is allocated otherwise. Output redirected to a file or pipe
// is left alone.
func prepareConsole(attachOnly bool) (err error) {
	if hasConsole() || redirected() {
		return nil
	}

	err = attachConsole()
	if err == nil {
		bindOutput()
		fmt.Println() // Start on a new line when attaching to an existing console
		return
	}
	if attachOnly {
		return
	}

	err = allocConsole()
	if err == nil {
		bindOutput()
	}

	return
}

func hasConsole() bool {
	r0, _, _ := syscall.Syscall(procGetConsoleWnd.Addr(), 0, 0, 0, 0)
	return r0 != 0
}

func redirected() bool {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil || h == 0 || h == windows.InvalidHandle {
		return false
	}
	t, err := windows.GetFileType(h)
	if err != nil {
		return false
	}
	return t == windows.FILE_TYPE_DISK || t == windows.FILE_TYPE_PIPE
}

func attachConsole() (err error) {
	const attachParentProcess = ^uintptr(0) // -1
	r0, _, e0 := syscall.Syscall(procAttachConsole.Addr(), 1, attachParentProcess, 0, 0)
	if r0 == 0 {
		// The process might already have a console
		err = fmt.Errorf("could not attach console: %s", e0)
	}
	return
}

func allocConsole() (err error) {
	r0, _, e0 := syscall.Syscall(procAllocConsole.Addr(), 0, 0, 0, 0)
	if r0 == 0 {
		err = fmt.Errorf("could not allocate console: %s", e0)
	}
	return
}

func bindOutput() error {
	hout, err := syscall.GetStdHandle(syscall.STD_OUTPUT_HANDLE)
	if err != nil {
		return err
	}
	herr, err := syscall.GetStdHandle(syscall.STD_ERROR_HANDLE)
	if err != nil {
		return err
	}

	os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
	log.SetOutput(os.Stderr)

	return nil
}
