package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Pointer 本帧的指针输入，统一鼠标和触摸
type Pointer struct {
	X, Y int
	// Fire 左键或新的单指触摸
	Fire bool
	// Alt 右键或双指同时触摸
	Alt bool
	// Touch 指针来自触摸屏
	Touch bool
}

// ReadPointer 读取本帧的指针状态
// 有活动触摸时优先使用触摸位置，否则使用鼠标位置
func ReadPointer() Pointer {
	var p Pointer

	active := ebiten.AppendTouchIDs(nil)
	if len(active) > 0 {
		p.Touch = true
		p.X, p.Y = ebiten.TouchPosition(active[0])
		pressed := inpututil.AppendJustPressedTouchIDs(nil)
		switch {
		case len(pressed) > 0 && len(active) >= 2:
			p.Alt = true
		case len(pressed) > 0:
			p.X, p.Y = ebiten.TouchPosition(pressed[0])
			p.Fire = true
		}
		return p
	}

	p.X, p.Y = ebiten.CursorPosition()
	p.Fire = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	p.Alt = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	return p
}
