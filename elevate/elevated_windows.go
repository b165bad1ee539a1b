//go:build windows
// +build windows

package elevate

import "golang.org/x/sys/windows"

// IsElevated returns true if the current process token is a member of the
// built-in Administrators group. With UAC enabled an unelevated
// administrator is not a member.
func IsElevated() bool {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	sid, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		return false
	}

	member, err := token.IsMember(sid)
	return err == nil && member
}
