package lobby

import "sync"

// The registry holds the single active coordinator so that unrelated
// subsystems (transport callbacks, tick loop, UI) can reach the current
// session without being handed a reference at construction time. The
// reference is non-owning: Shutdown releases the slot and later lookups
// return absent rather than a dangling instance.
var (
	registryMu sync.RWMutex
	active     Coordinator
)

// install claims the registry slot. At most one coordinator may exist per
// process; a second create while one is alive is a broken orchestration
// contract and fatal.
func install(c Coordinator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if active != nil {
		panic("lobby: a session coordinator is already active")
	}
	active = c
}

// release frees the slot if it is still held by c
func release(c Coordinator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if active == c {
		active = nil
	}
}

// Get returns the active coordinator, or false when none is alive
func Get() (Coordinator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if active == nil {
		return nil, false
	}
	return active, true
}

// GetServer returns the active coordinator narrowed to the server role.
// Absent or mismatched role is a routine outcome, not an error.
func GetServer() (*ServerLobby, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := active.(*ServerLobby)
	return s, ok
}

// GetClient returns the active coordinator narrowed to the client role
func GetClient() (*ClientLobby, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := active.(*ClientLobby)
	return c, ok
}
