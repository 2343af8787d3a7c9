package game

import "sync"

// Table serializes every command against the one Engine of a deployment.
// The HTTP handlers and the scheduler reach the engine only through it.
type Table struct {
	mu sync.Mutex
	e  *Engine
}

// NewTable wraps e.
func NewTable(e *Engine) *Table {
	return &Table{e: e}
}

// Exec runs fn with exclusive access to the engine.
func (t *Table) Exec(fn func(e *Engine) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.e)
}
