package app

import (
	"fmt"
	"strings"

	"github.com/decker502/overdrive/pkg/game"
)

const (
	recentSoundLimit = 6
	recentSoundTTL   = 1.5
)

// recentSound HUD 上显示的最近音效
// 宿主不合成声音，只把触发器转交给外部音频模块，这里用于调试观察
type recentSound struct {
	ev  game.SoundEvent
	ttl float64
}

// collectSounds 取走本帧的音效事件，静音时丢弃
func (a *App) collectSounds(dt float64) {
	events := a.sounds.Drain()
	a.recent = ageSounds(a.recent, dt)
	if a.settings.EffectiveVolume() == 0 {
		return
	}
	for _, ev := range events {
		a.recent = append(a.recent, recentSound{ev: ev, ttl: recentSoundTTL})
	}
	if n := len(a.recent) - recentSoundLimit; n > 0 {
		a.recent = a.recent[n:]
	}
}

// ageSounds 递减寿命并原地移除过期条目
func ageSounds(list []recentSound, dt float64) []recentSound {
	out := list[:0]
	for _, s := range list {
		s.ttl -= dt
		if s.ttl > 0 {
			out = append(out, s)
		}
	}
	return out
}

// soundLine 音效调试行，例如 "sfx 80%: launch hit impact"
func soundLine(recent []recentSound, volume float64, fireLevel float64) string {
	if volume == 0 {
		return "sfx muted"
	}
	names := make([]string, 0, len(recent))
	for _, s := range recent {
		names = append(names, s.ev.Trigger.String())
	}
	line := fmt.Sprintf("sfx %.0f%%: %s", volume*100, strings.Join(names, " "))
	if fireLevel > 0 {
		line += fmt.Sprintf(" | ciws %.2f", fireLevel)
	}
	return line
}
