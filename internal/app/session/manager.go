package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrInvalidPlayer = errors.New("invalid player id")

// Factory builds a controller for a player seen for the first time.
type Factory func(playerID string) (*Controller, error)

// Manager keeps one controller per player.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Controller
	build    Factory
}

func NewManager(build Factory) *Manager {
	return &Manager{sessions: map[string]*Controller{}, build: build}
}

func (m *Manager) Get(ctx context.Context, playerID string) (*Controller, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrInvalidPlayer
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[playerID]; ok {
		return c, nil
	}
	c, err := m.build(playerID)
	if err != nil {
		return nil, err
	}
	if err := c.Resume(ctx); err != nil {
		return nil, err
	}
	m.sessions[playerID] = c
	return c, nil
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.sessions {
		c.Close()
		delete(m.sessions, id)
	}
}
