// Package app 提供调试宿主的核心包装器
//
// 该包把模拟核心接到 Ebitengine：键鼠输入转换为命令，每帧推进一次 Simulation，
// 再把快照画成矢量图形和 HUD 文字。桌面端通过 main.go 调用 NewApp()，
// 移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/overdrive/pkg/config"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/systems"
	"github.com/decker502/overdrive/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出（包括发射井状态转换）
	Verbose bool
	// DataDir 配置表目录，默认 "data"（从嵌入文件系统读取）
	DataDir string
	// Seed 随机种子，0 表示按时间生成新种子
	Seed int64
	// Replay Seed 为 0 时重放设置中记录的上一局种子
	Replay bool
	// Auto 开局时打开自动防御
	Auto bool
}

// App 调试宿主，实现 ebiten.Game 接口
type App struct {
	sim      *systems.Simulation
	sounds   *game.SoundQueue
	settings *game.SettingsManager
	bundle   *config.Bundle
	verbose  bool

	hud    *hudRenderer
	recent []recentSound

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化调试宿主
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	dir := cfg.DataDir
	if dir == "" {
		dir = "data"
	}
	bundle, err := config.LoadBundle(dir)
	if err != nil {
		return nil, fmt.Errorf("配置表加载失败: %w", err)
	}
	log.Printf("[App] Config bundle loaded from %s (%d variants)", dir, len(bundle.Variants.Variants))

	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	// gdata 不可用时降级为仅内存设置
	var store *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: "overdrive"}); err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings kept in memory)", err)
	} else {
		store = m
	}
	settings := game.NewSettingsManager(store)

	a := &App{
		sounds:   game.NewSoundQueue(0),
		settings: settings,
		bundle:   bundle,
		verbose:  cfg.Verbose,
		hud:      newHUDRenderer(),
	}
	// 触屏上没有键盘，默认打开自动防御
	auto := cfg.Auto || settings.GetSettings().AutoDefenseOnStart || utils.IsMobile()
	seed := cfg.Seed
	if seed == 0 && cfg.Replay {
		seed = settings.GetSettings().LastSeed
	}
	a.newSession(seed, auto)
	return a, nil
}

// newSession 创建世界和帧调度器，seed 为 0 时按时间生成新种子
func (a *App) newSession(seed int64, auto bool) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.settings.SetLastSeed(seed)
	a.saveSettings()

	w := game.NewWorld(a.bundle,
		game.WithSeed(seed),
		game.WithSoundSink(a.sounds),
		game.WithVerbose(a.verbose),
	)
	a.sim = systems.NewSimulation(w)
	if auto {
		a.sim.ToggleAuto()
	}
	a.recent = a.recent[:0]
	log.Printf("[App] New session, seed %d", seed)
}

// Simulation 返回当前帧调度器
func (a *App) Simulation() *systems.Simulation {
	return a.sim
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w := a.sim.World()
			ebiten.SetWindowSize(int(w.Width), int(w.Height))
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	for _, cmd := range pollCommands() {
		a.execute(cmd)
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sim.Advance(deltaTime)
	a.collectSounds(deltaTime)
	return nil
}

// Draw 绘制快照
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	drawSnapshot(screen, a.sim.Snapshot(), a.hud)
	a.hud.drawStatus(screen, a.statusLines())
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸，即战场尺寸
// Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := a.sim.World()
	return int(w.Width), int(w.Height)
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Shutdown 保存设置，遥测打开时输出报告
func (a *App) Shutdown() {
	if t := a.sim.World().Telemetry; t.Enabled {
		log.Printf("[App] Telemetry report:\n%s", t.Report())
	}
	a.saveSettings()
}
