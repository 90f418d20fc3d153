package journal

import (
	"sync"

	"go.trai.ch/tend/internal/core/domain"
)

// Entry is one recorded journal entry.
type Entry struct {
	Level   domain.Level
	Message string
}

// Memory is an in-memory ports.Journal.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// Record stores the entry.
func (m *Memory) Record(level domain.Level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message})
}

// Entries returns a copy of every entry in record order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Messages returns the messages recorded at level.
func (m *Memory) Messages(level domain.Level) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}
