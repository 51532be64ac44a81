package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/overdrive/pkg/app"
	"github.com/decker502/overdrive/pkg/embedded"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细日志")
	seed    = flag.Int64("seed", 0, "随机种子，0 表示按时间生成")
	replay  = flag.Bool("replay", false, "重放上一局的随机种子（-seed 为 0 时）")
	auto    = flag.Bool("auto", false, "开局时打开自动防御")
	dataDir = flag.String("data", "data", "配置表目录，data 表示使用嵌入数据")
)

func main() {
	flag.Parse()

	// 初始化嵌入数据，必须在加载任何配置之前
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		DataDir: *dataDir,
		Seed:    *seed,
		Replay:  *replay,
		Auto:    *auto,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	w, h := gameApp.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Missile Command Overdrive")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
	gameApp.Shutdown()
}
