package term

import "sync"

// live tracks running terminals by pid so snapshots can reattach. Pty file
// descriptors are process-wide resources; the registry is the only way a
// deserialized session can find its way back to them.
var live sync.Map // map[int]*Terminal

func register(t *Terminal) {
	if pid := t.Pid(); pid > 0 {
		live.Store(pid, t)
	}
}

func unregister(t *Terminal) {
	if pid := t.Pid(); pid > 0 {
		// Only remove our own entry; the pid may have been reused by a
		// newer terminal.
		if cur, ok := live.Load(pid); ok && cur.(*Terminal) == t {
			live.Delete(pid)
		}
	}
}

// Lookup returns the live terminal for a pid, if any
func Lookup(pid int) (*Terminal, bool) {
	v, ok := live.Load(pid)
	if !ok {
		return nil, false
	}
	return v.(*Terminal), true
}
