package structs

import (
	"fmt"
	"strings"
)

// Command 是游戏核心能理解的输入指令。
type Command int

const (
	CommandNone Command = iota // 无效按键，直接忽略
	TurnUp
	TurnDown
	TurnLeft
	TurnRight
	TogglePause
)

// ParseCommand maps a key name from the outside world onto a Command.
// Anything unknown becomes CommandNone.
func ParseCommand(s string) Command {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return TurnUp
	case "down", "s":
		return TurnDown
	case "left", "a":
		return TurnLeft
	case "right", "d":
		return TurnRight
	case "pause", "p", "space":
		return TogglePause
	default:
		return CommandNone
	}
}

func (c Command) String() string {
	switch c {
	case TurnUp:
		return "up"
	case TurnDown:
		return "down"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	case TogglePause:
		return "pause"
	default:
		return "none"
	}
}

// Status 游戏状态，Over 为终态。
type Status int

const (
	Playing Status = iota
	Paused
	Over
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Over:
		return "over"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = Playing
	case "paused":
		*s = Paused
	case "over":
		*s = Over
	default:
		return fmt.Errorf("unknown status %q", string(b))
	}
	return nil
}

// Label 描述一个格子里画什么。
type Label string

const (
	LabelEmpty Label = "empty"
	LabelShake Label = "shake"
	LabelEgg   Label = "egg"
)

// View 描述一局游戏对外展示的状态，渲染和接口都只读它。
type View struct {
	GroupID string  `json:"group_id"` // 游戏组标识
	Width   int     `json:"width"`    // 地图宽度
	Height  int     `json:"height"`   // 地图高度
	Status  Status  `json:"status"`   // 当前状态
	Score   int     `json:"score"`    // 长度减去初始长度
	Tick    uint64  `json:"tick"`     // 实际移动过的次数
	Head    int     `json:"head"`     // 蛇头所在格子
	Cleared bool    `json:"cleared"`  // 蛇填满了整个地图
	Cells   []Label `json:"cells"`    // 按 row*width+col 排列
}
