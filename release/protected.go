package release

// Protected returns true if pid must never be terminated by a helper
// running as self. Invalid pids, the init process and the helper itself are
// always protected, along with any platform specific system processes.
func Protected(pid, self int) bool {
	if pid <= 1 || pid == self {
		return true
	}
	for _, system := range systemPIDs {
		if pid == system {
			return true
		}
	}
	return false
}
