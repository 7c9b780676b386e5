package tagstore

import (
	"fmt"
	"slices"
)

// Memory is an in-memory Container that counts saves.
type Memory struct {
	Frames map[string][]string
	Order  []string
	Saves  int
	Closed bool
	// SaveErr, when set, is returned by Save.
	SaveErr error
}

func NewMemory() *Memory {
	return &Memory{Frames: map[string][]string{}}
}

// Set adds or replaces key, keeping first-insertion order for Keys.
func (m *Memory) Set(key string, values ...string) *Memory {
	if _, ok := m.Frames[key]; !ok {
		m.Order = append(m.Order, key)
	}
	m.Frames[key] = values
	return m
}

func (m *Memory) Keys() []string {
	return slices.Clone(m.Order)
}

func (m *Memory) Values(key string) []string {
	values, ok := m.Frames[key]
	if !ok {
		return nil
	}
	return slices.Clone(values)
}

func (m *Memory) SetValues(key string, values []string) error {
	if !IsSupportedKey(key) {
		return fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
	}
	m.Set(key, slices.Clone(values)...)
	return nil
}

func (m *Memory) Save() error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	return nil
}

func (m *Memory) Close() error {
	m.Closed = true
	return nil
}
