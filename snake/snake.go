// Package snake is the game engine: it owns the shake (the segment chain), the egg,
// the heading, a one-slot input mailbox and the play/pause/over status, and advances
// them one tick at a time. It has no timers and no locks; the caller drives it.
package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/shake-in-im/grid"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// NoEgg is the egg position once the shake covers the whole board.
const NoEgg = -1

// 默认开局
const (
	defaultEgg = 20
)

var defaultChain = []int{0, 1, 2}

var (
	ErrEmptyChain     = errors.New("snake: chain must have at least one segment")
	ErrChainOutOfGrid = errors.New("snake: chain segment outside the grid")
	ErrChainOverlap   = errors.New("snake: chain segments overlap")
	ErrChainTooLong   = errors.New("snake: chain leaves no free cell for the egg")
	ErrInvalidEgg     = errors.New("snake: egg must be a free cell inside the grid")
	ErrInvalidHeading = errors.New("snake: step does not match direction")
)

// Direction is the axis the shake travels along.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

type turn struct {
	direction Direction
	step      int
}

// Engine 一局游戏的全部可变状态。只能由单一调用方使用。
type Engine struct {
	grid      grid.Grid
	chain     []int // 尾在前，头在后
	egg       int
	direction Direction
	step      int
	pending   *turn // 单槽信箱，每个 tick 开头消费
	status    structs.Status
	initLen   int
	ticks     uint64
	cleared   bool
	rng       *rand.Rand
}

type settings struct {
	chain     []int
	egg       int
	hasEgg    bool
	direction Direction
	step      int
	rng       *rand.Rand
}

// Option customises a new Engine.
type Option func(*settings)

// WithChain sets the initial shake, tail first and head last.
func WithChain(chain []int) Option {
	return func(s *settings) {
		s.chain = append([]int(nil), chain...)
	}
}

// WithEgg places the first egg on a fixed cell instead of the default.
func WithEgg(cell int) Option {
	return func(s *settings) {
		s.egg = cell
		s.hasEgg = true
	}
}

// WithHeading sets the initial direction and step (±1 horizontally, ±width vertically).
func WithHeading(d Direction, step int) Option {
	return func(s *settings) {
		s.direction = d
		s.step = step
	}
}

// WithRand sets the random source used for egg placement.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		s.rng = r
	}
}

// New builds a Playing engine on a width x height board. By default the shake is
// [0 1 2] heading right and the egg sits on cell 20, or on a random free cell when
// 20 is not usable.
func New(width, height int, opts ...Option) (*Engine, error) {
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}

	s := settings{
		chain:     append([]int(nil), defaultChain...),
		direction: Horizontal,
		step:      1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		grid:      g,
		chain:     s.chain,
		direction: s.direction,
		step:      s.step,
		status:    structs.Playing,
		initLen:   len(s.chain),
		rng:       s.rng,
	}
	if err := e.validateChain(); err != nil {
		return nil, err
	}
	if err := e.validateHeading(e.direction, e.step); err != nil {
		return nil, err
	}

	switch {
	case s.hasEgg:
		if !g.Contains(s.egg) || e.occupied(s.egg) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidEgg, s.egg)
		}
		e.egg = s.egg
	case g.Contains(defaultEgg) && !e.occupied(defaultEgg):
		e.egg = defaultEgg
	default:
		e.placeEgg()
	}
	return e, nil
}

func (e *Engine) validateChain() error {
	if len(e.chain) == 0 {
		return ErrEmptyChain
	}
	if len(e.chain) >= e.grid.Size() {
		return fmt.Errorf("%w: %d segments on %d cells", ErrChainTooLong, len(e.chain), e.grid.Size())
	}
	seen := make(map[int]bool, len(e.chain))
	for _, cell := range e.chain {
		if !e.grid.Contains(cell) {
			return fmt.Errorf("%w: %d", ErrChainOutOfGrid, cell)
		}
		if seen[cell] {
			return fmt.Errorf("%w: %d", ErrChainOverlap, cell)
		}
		seen[cell] = true
	}
	return nil
}

func (e *Engine) validateHeading(d Direction, step int) error {
	switch d {
	case Horizontal:
		if step == 1 || step == -1 {
			return nil
		}
	case Vertical:
		if step == e.grid.Width || step == -e.grid.Width {
			return nil
		}
	}
	return fmt.Errorf("%w: %s step %d", ErrInvalidHeading, d, step)
}

// SubmitInput buffers a turn or toggles pause. A turn along the current axis is
// ignored, a newer accepted turn replaces an older one, and pause takes effect at once.
func (e *Engine) SubmitInput(cmd structs.Command) {
	var t turn
	switch cmd {
	case structs.TurnUp:
		t = turn{Vertical, -e.grid.Width}
	case structs.TurnDown:
		t = turn{Vertical, e.grid.Width}
	case structs.TurnLeft:
		t = turn{Horizontal, -1}
	case structs.TurnRight:
		t = turn{Horizontal, 1}
	case structs.TogglePause:
		e.togglePause()
		return
	default:
		return
	}
	if t.direction == e.direction {
		return
	}
	e.pending = &t
}

func (e *Engine) togglePause() {
	switch e.status {
	case structs.Playing:
		e.status = structs.Paused
	case structs.Paused:
		e.status = structs.Playing
	}
}

// AdvanceTick runs one simulation step. The buffered turn is applied first (also
// while paused), then the head moves, then the egg and collision rules are checked.
func (e *Engine) AdvanceTick() {
	if e.pending != nil {
		e.direction, e.step = e.pending.direction, e.pending.step
		e.pending = nil
	}
	if e.status != structs.Playing {
		return
	}

	next := e.nextHead()
	switch {
	case next == e.egg:
		// 吃到蛋，只长不缩
		e.chain = append(e.chain, next)
		e.ticks++
		e.placeEgg()
	case e.occupied(next):
		// 咬到自己，保留最后一帧
		e.status = structs.Over
	default:
		e.chain = append(e.chain[1:], next)
		e.ticks++
	}
}

func (e *Engine) nextHead() int {
	head := e.Head()
	switch e.direction {
	case Vertical:
		return grid.WrapGrid(head, e.step, e.grid.Size())
	default:
		return grid.WrapColumn(head, e.step, e.grid.Width)
	}
}

// placeEgg draws cells until one is off the shake. A full board ends the game
// as cleared instead of drawing forever.
func (e *Engine) placeEgg() {
	if len(e.chain) >= e.grid.Size() {
		e.egg = NoEgg
		e.cleared = true
		e.status = structs.Over
		return
	}
	for {
		cell := e.rng.Intn(e.grid.Size())
		if !e.occupied(cell) {
			e.egg = cell
			return
		}
	}
}

func (e *Engine) occupied(cell int) bool {
	for _, c := range e.chain {
		if c == cell {
			return true
		}
	}
	return false
}

// Snapshot labels every cell of the board, indexed by row*width+col.
func (e *Engine) Snapshot() []structs.Label {
	cells := make([]structs.Label, e.grid.Size())
	for i := range cells {
		cells[i] = structs.LabelEmpty
	}
	if e.egg != NoEgg {
		cells[e.egg] = structs.LabelEgg
	}
	for _, c := range e.chain {
		cells[c] = structs.LabelShake
	}
	return cells
}

func (e *Engine) Status() structs.Status { return e.status }

func (e *Engine) Grid() grid.Grid { return e.grid }

func (e *Engine) Egg() int { return e.egg }

func (e *Engine) Head() int { return e.chain[len(e.chain)-1] }

// Score is how many segments the shake has grown since the start.
func (e *Engine) Score() int { return len(e.chain) - e.initLen }

// Ticks counts the ticks that moved the shake.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Cleared reports whether the shake filled the board.
func (e *Engine) Cleared() bool { return e.cleared }

// Heading returns the current direction and step.
func (e *Engine) Heading() (Direction, int) { return e.direction, e.step }

// Chain returns a copy of the shake, tail first.
func (e *Engine) Chain() []int {
	return append([]int(nil), e.chain...)
}
