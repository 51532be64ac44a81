package app

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/overdrive/pkg/utils"
)

// commandKind 宿主命令
type commandKind int

const (
	cmdAim commandKind = iota
	cmdFire
	cmdPulse
	cmdToggleAuto
	cmdToggleSilo
	cmdRestart
	cmdNextWave
	cmdPrevWave
	cmdSelectBase
	cmdToggleTelemetry
	cmdToggleMute
	cmdVolumeUp
	cmdVolumeDown
	cmdReplay
)

// volumeStep 每次按键调整的主音量
const volumeStep = 0.1

// command 一条输入命令，X/Y 为鼠标位置，Base 为基地下标
type command struct {
	Kind commandKind
	X, Y float64
	Base int
}

// keyBindings 按键到命令的映射
var keyBindings = []struct {
	key  ebiten.Key
	kind commandKind
	base int
}{
	{ebiten.KeyE, cmdPulse, 0},
	{ebiten.KeyC, cmdToggleAuto, 0},
	{ebiten.KeyH, cmdToggleSilo, 0},
	{ebiten.KeyR, cmdRestart, 0},
	{ebiten.KeyBracketRight, cmdNextWave, 0},
	{ebiten.KeyBracketLeft, cmdPrevWave, 0},
	{ebiten.KeyDigit1, cmdSelectBase, 0},
	{ebiten.KeyDigit2, cmdSelectBase, 1},
	{ebiten.KeyDigit3, cmdSelectBase, 2},
	{ebiten.KeyF8, cmdToggleTelemetry, 0},
	{ebiten.KeyM, cmdToggleMute, 0},
	{ebiten.KeyEqual, cmdVolumeUp, 0},
	{ebiten.KeyMinus, cmdVolumeDown, 0},
	{ebiten.KeyF5, cmdReplay, 0},
}

// pollCommands 读取本帧的键鼠和触摸输入
func pollCommands() []command {
	p := utils.ReadPointer()
	x, y := float64(p.X), float64(p.Y)
	cmds := []command{{Kind: cmdAim, X: x, Y: y}}

	if p.Fire {
		cmds = append(cmds, command{Kind: cmdFire, X: x, Y: y})
	}
	if p.Alt {
		cmds = append(cmds, command{Kind: cmdPulse})
	}
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			cmds = append(cmds, command{Kind: b.kind, Base: b.base})
		}
	}
	return cmds
}

// execute 执行一条命令
// 开场画面中点击或按任意动作键开始游戏
func (a *App) execute(cmd command) {
	sim := a.sim
	w := sim.World()

	if w.Intro && !cmd.Kind.hostOnly() {
		sim.Start()
		return
	}

	switch cmd.Kind {
	case cmdAim:
		sim.SetAim(cmd.X, cmd.Y)
	case cmdFire:
		sim.SetAim(cmd.X, cmd.Y)
		sim.Fire(w.AimX, w.AimY)
	case cmdPulse:
		sim.AreaPulse()
	case cmdToggleAuto:
		sim.ToggleAuto()
		// 记住玩家的选择，下次启动沿用
		a.settings.SetAutoDefenseOnStart(w.Auto)
		a.saveSettings()
	case cmdToggleSilo:
		sim.ToggleSilo()
	case cmdRestart:
		a.newSession(0, w.Auto)
		a.sim.Start()
	case cmdReplay:
		a.newSession(a.settings.GetSettings().LastSeed, w.Auto)
		a.sim.Start()
	case cmdNextWave:
		sim.JumpWave(1)
	case cmdPrevWave:
		sim.JumpWave(-1)
	case cmdSelectBase:
		if w.SelectedBase == cmd.Base {
			sim.SelectBase(-1)
		} else {
			sim.SelectBase(cmd.Base)
		}
	case cmdToggleTelemetry:
		if !sim.ToggleTelemetry() {
			log.Printf("[App] Telemetry report:\n%s", w.Telemetry.Report())
		}
	case cmdToggleMute:
		muted := a.settings.ToggleMute()
		a.saveSettings()
		if muted {
			a.recent = a.recent[:0]
		}
	case cmdVolumeUp, cmdVolumeDown:
		step := volumeStep
		if cmd.Kind == cmdVolumeDown {
			step = -step
		}
		a.settings.SetMasterVolume(a.settings.GetSettings().MasterVolume + step)
		a.saveSettings()
	}
}

// hostOnly 只影响宿主、不会离开开场画面的命令
func (k commandKind) hostOnly() bool {
	switch k {
	case cmdAim, cmdToggleMute, cmdVolumeUp, cmdVolumeDown:
		return true
	}
	return false
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}
