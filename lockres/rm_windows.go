//go:build windows
// +build windows

package lockres

import (
	"context"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/scjalliance/unlocker/eventlog"
	"golang.org/x/sys/windows"
)

var (
	modrstrtmgr = windows.NewLazySystemDLL("rstrtmgr.dll")

	procRmStartSession      = modrstrtmgr.NewProc("RmStartSession")
	procRmEndSession        = modrstrtmgr.NewProc("RmEndSession")
	procRmRegisterResources = modrstrtmgr.NewProc("RmRegisterResources")
	procRmGetList           = modrstrtmgr.NewProc("RmGetList")
)

const (
	cchRmSessionKey = 32
	cchRmMaxAppName = 255
	cchRmMaxSvcName = 63

	errorMoreData = 234

	// The list of affected processes can grow between calls, so the
	// query is retried a bounded number of times.
	rmGetListAttempts = 5
)

type rmUniqueProcess struct {
	ProcessID        uint32
	ProcessStartTime windows.Filetime
}

type rmProcessInfo struct {
	Process          rmUniqueProcess
	AppName          [cchRmMaxAppName + 1]uint16
	ServiceShortName [cchRmMaxSvcName + 1]uint16
	ApplicationType  uint32
	AppStatus        uint32
	TSSessionID      uint32
	Restartable      int32
}

// RestartManager is a Resolver that asks the windows Restart Manager which
// processes are using the files beneath each target.
//
// The Restart Manager only understands files. Directory targets are
// expanded to the regular files beneath them, up to MaxFiles per target.
type RestartManager struct {
	MaxFiles int
	Logger   eventlog.Logger
}

// Resolve returns the set of processes holding targets open.
func (rm *RestartManager) Resolve(ctx context.Context, targets []string) (Locks, error) {
	set, err := newTargetSet(targets)
	if err != nil {
		return nil, err
	}

	if err := modrstrtmgr.Load(); err != nil {
		return nil, &ResolutionError{Err: err}
	}

	acc := newAccumulator()
	for _, t := range set {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, truncated, err := expand(ctx, t.path, rm.MaxFiles)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// A target that has vanished cannot be locked
			rm.debug(fmt.Sprintf("Unable to examine %s: %v", t.path, err))
			continue
		}
		if truncated {
			rm.log(fmt.Sprintf("Only the first %d files beneath %s were examined; deeper locks may be missed", len(files), t.path))
		}
		if len(files) == 0 {
			continue
		}

		procs, err := rmList(files)
		if err != nil {
			return nil, &ResolutionError{Err: err}
		}
		for _, p := range procs {
			acc.add(Lock{
				PID:    int(p.Process.ProcessID),
				Name:   windows.UTF16ToString(p.AppName[:]),
				Path:   t.path,
				Target: t.path,
			})
		}
		rm.debug(fmt.Sprintf("Registered %d files for %s, %d processes affected", len(files), t.path, len(procs)))
	}

	return acc.locks(), nil
}

func (rm *RestartManager) log(msg string) {
	if rm.Logger == nil {
		return
	}
	rm.Logger.Log(eventlog.ResolveEvent{Msg: msg})
}

func (rm *RestartManager) debug(msg string) {
	if rm.Logger == nil {
		return
	}
	rm.Logger.Log(eventlog.ResolveEvent{Msg: msg, Debug: true})
}

// Default returns the resolver used on this platform.
func Default(logger eventlog.Logger) Resolver {
	return &RestartManager{
		MaxFiles: DefaultMaxFiles,
		Logger:   logger,
	}
}

// rmList runs a single Restart Manager session that registers files and
// returns the processes using them.
func rmList(files []string) ([]rmProcessInfo, error) {
	var (
		session uint32
		key     [cchRmSessionKey + 1]uint16
	)
	r0, _, _ := procRmStartSession.Call(uintptr(unsafe.Pointer(&session)), 0, uintptr(unsafe.Pointer(&key[0])))
	if r0 != 0 {
		return nil, fmt.Errorf("could not start restart manager session: %w", syscall.Errno(r0))
	}
	defer procRmEndSession.Call(uintptr(session))

	names := make([]*uint16, 0, len(files))
	for _, file := range files {
		name, err := windows.UTF16PtrFromString(file)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, nil
	}

	r0, _, _ = procRmRegisterResources.Call(
		uintptr(session),
		uintptr(len(names)),
		uintptr(unsafe.Pointer(&names[0])),
		0, 0, 0, 0)
	if r0 != 0 {
		return nil, fmt.Errorf("could not register resources: %w", syscall.Errno(r0))
	}

	var (
		needed  uint32
		count   uint32
		reasons uint32
		infos   []rmProcessInfo
	)
	for attempt := 0; attempt < rmGetListAttempts; attempt++ {
		var ptr uintptr
		if count > 0 {
			infos = make([]rmProcessInfo, count)
			ptr = uintptr(unsafe.Pointer(&infos[0]))
		}
		r0, _, _ = procRmGetList.Call(
			uintptr(session),
			uintptr(unsafe.Pointer(&needed)),
			uintptr(unsafe.Pointer(&count)),
			ptr,
			uintptr(unsafe.Pointer(&reasons)))
		switch r0 {
		case 0:
			if count == 0 || len(infos) == 0 {
				return nil, nil
			}
			return infos[:count], nil
		case errorMoreData:
			count = needed
		default:
			return nil, fmt.Errorf("could not list affected processes: %w", syscall.Errno(r0))
		}
	}
	return nil, fmt.Errorf("could not list affected processes: %w", syscall.Errno(errorMoreData))
}
