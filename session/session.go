// Package session drives game engines: it owns one engine per group, serialises
// access to it and advances it from a ticker at a fixed cadence.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hoshinonyaruko/shake-in-im/snake"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// Session 一局游戏：一个引擎，一个定时器。
type Session struct {
	mu       sync.Mutex
	id       string
	engine   *snake.Engine
	interval time.Duration
	onTick   func(structs.View)

	cancel context.CancelFunc
	done   chan struct{}
}

// New wraps an engine. The session does not tick until Start is called.
func New(id string, engine *snake.Engine, interval time.Duration) *Session {
	return &Session{
		id:       id,
		engine:   engine,
		interval: interval,
	}
}

// OnTick registers a hook that receives the view after every tick.
func (s *Session) OnTick(fn func(structs.View)) {
	s.mu.Lock()
	s.onTick = fn
	s.mu.Unlock()
}

// Start launches the ticker goroutine. It stops when ctx is cancelled, Stop is called
// or the game is over.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.Step().Status == structs.Over {
					return
				}
			}
		}
	}()
}

// Stop halts the ticker and waits for it to exit. Safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Step advances the engine by one tick, notifies the hook and returns the new view.
func (s *Session) Step() structs.View {
	s.mu.Lock()
	s.engine.AdvanceTick()
	view := s.viewLocked()
	fn := s.onTick
	s.mu.Unlock()

	if fn != nil {
		fn(view)
	}
	return view
}

// Submit forwards a command to the engine.
func (s *Session) Submit(cmd structs.Command) {
	s.mu.Lock()
	s.engine.SubmitInput(cmd)
	s.mu.Unlock()
}

// View returns the current state for display.
func (s *Session) View() structs.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() structs.View {
	g := s.engine.Grid()
	return structs.View{
		GroupID: s.id,
		Width:   g.Width,
		Height:  g.Height,
		Status:  s.engine.Status(),
		Score:   s.engine.Score(),
		Tick:    s.engine.Ticks(),
		Head:    s.engine.Head(),
		Cleared: s.engine.Cleared(),
		Cells:   s.engine.Snapshot(),
	}
}
