package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// keyCommand maps a key press to a game command. quit is set for Esc, Ctrl-C and q.
// Keys with no meaning return CommandNone.
func keyCommand(key tcell.Key, ch rune) (cmd structs.Command, quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return structs.CommandNone, true
	case tcell.KeyUp:
		return structs.TurnUp, false
	case tcell.KeyDown:
		return structs.TurnDown, false
	case tcell.KeyLeft:
		return structs.TurnLeft, false
	case tcell.KeyRight:
		return structs.TurnRight, false
	case tcell.KeyRune:
		switch ch {
		case 'q', 'Q':
			return structs.CommandNone, true
		case ' ':
			return structs.TogglePause, false
		}
		return structs.ParseCommand(string(ch)), false
	}
	return structs.CommandNone, false
}
