// Package terminal plays one game in the terminal: tcell key events become commands,
// a ticker advances the game and every tick redraws the board.
package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/shake-in-im/session"
	"github.com/hoshinonyaruko/shake-in-im/snake"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// Game binds a screen to one session.
type Game struct {
	screen   tcell.Screen
	session  *session.Session
	interval time.Duration
	sound    *Sound
	last     structs.View
}

// New prepares a terminal game. sound may be nil.
func New(screen tcell.Screen, engine *snake.Engine, interval time.Duration, sound *Sound) *Game {
	g := &Game{
		screen:   screen,
		session:  session.New("terminal", engine, interval),
		interval: interval,
		sound:    sound,
	}
	g.last = g.session.View()
	g.session.OnTick(func(v structs.View) {
		g.sound.React(g.last, v)
		g.last = v
	})
	return g
}

// Run blocks until the player quits or ctx is done. The session is stepped from
// this goroutine only, so ticks and key presses never interleave.
func (g *Game) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	g.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !g.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			g.session.Step()
			g.draw()
		}
	}
}

// handleEvent returns false when the player asked to quit.
func (g *Game) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd, quit := keyCommand(ev.Key(), ev.Rune())
		if quit {
			return false
		}
		if cmd != structs.CommandNone {
			g.session.Submit(cmd)
			// 暂停立即生效，马上重画
			if cmd == structs.TogglePause {
				g.draw()
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
		g.draw()
	}
	return true
}

func (g *Game) draw() {
	g.screen.Clear()
	drawView(g.screen, g.session.View())
	g.screen.Show()
}
