package credstore

import "github.com/Hanish3/college-portal/core/session"

type Memory struct {
	raw string
	set bool
}

var _ session.Store = (*Memory)(nil)

func NewMemory(raw ...string) *Memory {
	m := &Memory{}
	if len(raw) > 0 {
		_ = m.Set(raw[0])
	}
	return m
}

func (m *Memory) Get() (string, bool) {
	return m.raw, m.set
}

func (m *Memory) Set(raw string) error {
	m.raw, m.set = raw, true
	return nil
}

func (m *Memory) Clear() error {
	m.raw, m.set = "", false
	return nil
}
