package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hoshinonyaruko/shake-in-im/snake"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

func newEngine(t *testing.T) *snake.Engine {
	t.Helper()
	e, err := snake.New(8, 8, snake.WithEgg(63))
	if err != nil {
		t.Fatalf("snake.New: %v", err)
	}
	return e
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStepAndView(t *testing.T) {
	s := New("g1", newEngine(t), time.Hour)

	var mu sync.Mutex
	var seen []structs.View
	s.OnTick(func(v structs.View) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	s.Submit(structs.TurnDown)
	s.Step()

	v := s.View()
	if v.GroupID != "g1" || v.Width != 8 || v.Height != 8 {
		t.Errorf("Unexpected view header %+v", v)
	}
	if v.Head != 10 {
		t.Errorf("Expected head 10 after turning down, got %d", v.Head)
	}
	if v.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", v.Tick)
	}
	if len(v.Cells) != 64 || v.Cells[63] != structs.LabelEgg {
		t.Errorf("Expected 64 cells with egg at 63")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0].Head != 10 {
		t.Errorf("Expected one tick notification, got %d", len(seen))
	}
}

func TestStartTicksUntilStopped(t *testing.T) {
	s := New("g1", newEngine(t), 2*time.Millisecond)
	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op

	waitFor(t, func() bool { return s.View().Tick >= 2 })

	s.Stop()
	after := s.View().Tick
	time.Sleep(20 * time.Millisecond)
	if got := s.View().Tick; got != after {
		t.Errorf("Expected no ticks after Stop, got %d -> %d", after, got)
	}
	s.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	s := New("g1", newEngine(t), time.Millisecond)
	s.Stop()
}

func TestContextCancelStopsTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New("g1", newEngine(t), 2*time.Millisecond)
	s.Start(ctx)
	waitFor(t, func() bool { return s.View().Tick >= 1 })

	cancel()
	s.Stop()
	after := s.View().Tick
	time.Sleep(20 * time.Millisecond)
	if got := s.View().Tick; got != after {
		t.Errorf("Expected ticker stopped by context, got %d -> %d", after, got)
	}
}

func TestPausedSessionDoesNotMove(t *testing.T) {
	s := New("g1", newEngine(t), time.Hour)
	s.Submit(structs.TogglePause)
	before := s.View()
	for i := 0; i < 5; i++ {
		s.Step()
	}
	after := s.View()
	if after.Status != structs.Paused || after.Tick != before.Tick || after.Head != before.Head {
		t.Errorf("Expected paused session frozen, got %+v", after)
	}
}

func TestTickerExitsAfterOver(t *testing.T) {
	// 4x4, heading right along row 0: the head wraps onto the tail and bites it
	e, err := snake.New(4, 4, snake.WithChain([]int{0, 1, 2, 3}), snake.WithEgg(15))
	if err != nil {
		t.Fatalf("snake.New: %v", err)
	}
	s := New("g1", e, time.Millisecond)
	s.Start(context.Background())

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected ticker goroutine to exit once the game is over")
	}
	if v := s.View(); v.Status != structs.Over {
		t.Errorf("Expected over, got %v", v.Status)
	}
	s.Stop()
}
