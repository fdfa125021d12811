package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/shake-in-im/grid"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// contentSetter is the part of tcell.Screen the board drawing needs.
type contentSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleBorder  = styleDefault.Foreground(tcell.ColorDarkGray)
	styleShake   = styleDefault.Foreground(tcell.ColorGreen)
	styleHead    = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleEgg     = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHUD     = styleDefault.Foreground(tcell.ColorAqua)
	styleBanner  = styleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
)

// Board origin: row 0 is the HUD, row 1 the top border. Each cell is two columns wide.
const (
	boardX = 1
	boardY = 2
)

func cellPos(g grid.Grid, index int) (x, y int) {
	row, col := g.RowCol(index)
	return boardX + col*2, boardY + row
}

func drawView(s contentSetter, v structs.View) {
	drawText(s, 0, 0, hudLine(v), styleHUD)
	drawBorder(s, v.Width*2, v.Height)

	g := grid.Grid{Width: v.Width, Height: v.Height}
	for i, label := range v.Cells {
		x, y := cellPos(g, i)
		switch label {
		case structs.LabelShake:
			st := styleShake
			if i == v.Head {
				st = styleHead
			}
			s.SetContent(x, y, '█', nil, st)
			s.SetContent(x+1, y, '█', nil, st)
		case structs.LabelEgg:
			s.SetContent(x, y, '(', nil, styleEgg)
			s.SetContent(x+1, y, ')', nil, styleEgg)
		default:
			s.SetContent(x, y, ' ', nil, styleDefault)
			s.SetContent(x+1, y, ' ', nil, styleDefault)
		}
	}

	if v.Status == structs.Over {
		banner := " GAME OVER "
		if v.Cleared {
			banner = " CLEARED "
		}
		drawCentered(s, boardX+v.Width, boardY+v.Height/2, banner, styleBanner)
	}
}

func hudLine(v structs.View) string {
	state := ""
	switch v.Status {
	case structs.Paused:
		state = "  PAUSED"
	case structs.Over:
		state = "  OVER"
	}
	return fmt.Sprintf("score %d%s  [arrows/wasd move, space pause, q quit]", v.Score, state)
}

func drawBorder(s contentSetter, innerW, innerH int) {
	left, right := boardX-1, boardX+innerW
	top, bottom := boardY-1, boardY+innerH
	for x := left + 1; x < right; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, styleBorder)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, styleBorder)
		s.SetContent(right, y, tcell.RuneVLine, nil, styleBorder)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, styleBorder)
	s.SetContent(right, top, tcell.RuneURCorner, nil, styleBorder)
	s.SetContent(left, bottom, tcell.RuneLLCorner, nil, styleBorder)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, styleBorder)
}

func drawText(s contentSetter, x, y int, text string, st tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, st)
	}
}

func drawCentered(s contentSetter, cx, cy int, text string, st tcell.Style) {
	drawText(s, cx-len([]rune(text))/2, cy, text, st)
}
