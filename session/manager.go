package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hoshinonyaruko/shake-in-im/snake"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// Manager 按群号保存游戏，每个群一局。
type Manager struct {
	ctx      context.Context
	interval time.Duration
	options  []snake.Option

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions tick every interval and are stopped
// when ctx ends. opts are passed to every new engine; a WithRand source would be
// shared between sessions, so leave it out when more than one group plays.
func NewManager(ctx context.Context, interval time.Duration, opts ...snake.Option) *Manager {
	return &Manager{
		ctx:      ctx,
		interval: interval,
		options:  opts,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the running session of a group, starting a new game on a
// width x height board when the group has none.
func (m *Manager) GetOrCreate(groupID string, width, height int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[groupID]; ok {
		return s, nil
	}

	engine, err := snake.New(width, height, m.options...)
	if err != nil {
		return nil, fmt.Errorf("create game for group %s: %w", groupID, err)
	}
	s := New(groupID, engine, m.interval)
	over := false
	s.OnTick(func(v structs.View) {
		if v.Status == structs.Over && !over {
			over = true
			log.Printf("game over for group[%s] score[%d] cleared[%v]", groupID, v.Score, v.Cleared)
		}
	})
	s.Start(m.ctx)
	m.sessions[groupID] = s
	log.Printf("new game for group[%s] %dx%d every %v", groupID, width, height, m.interval)
	return s, nil
}

// Get looks up a running session.
func (m *Manager) Get(groupID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[groupID]
	return s, ok
}

// Delete stops and forgets a group's session. It reports whether one existed.
func (m *Manager) Delete(groupID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[groupID]
	delete(m.sessions, groupID)
	m.mu.Unlock()

	if ok {
		s.Stop()
		log.Printf("deleted game for group[%s]", groupID)
	}
	return ok
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
