// batchsim 并行运行多局无界面模拟
//
// 每个种子一局，自动防御和发射井全程由程序控制，用于观察难度曲线和调参。
// 各局世界互相独立，按种子顺序输出一行结果：
//
//	go run ./cmd/batchsim -seeds 16 -waves 12 -workers 4
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/overdrive/pkg/config"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/systems"
	"github.com/decker502/overdrive/pkg/types"
)

var (
	seeds     = flag.Int("seeds", 8, "模拟局数（种子 1..N）")
	waves     = flag.Int("waves", 10, "每局最多模拟的波次数")
	workers   = flag.Int("workers", runtime.NumCPU(), "并行数")
	dataDir   = flag.String("data", "data", "配置表目录")
	verbose   = flag.Bool("verbose", false, "显示详细日志")
	telemetry = flag.Bool("telemetry", false, "输出逐波遥测报告")
)

const (
	step         = 1.0 / 60
	waveTimeCap  = 240.0 // 单波模拟时间上限（秒）
	siloDangerAt = 0.35  // 危险度超过此值时展开发射井
)

// result 单局结果
type result struct {
	Seed     int64
	Wave     int
	Score    int
	MaxCombo int
	Cities   int
	GameOver bool
	SimTime  float64
	Report   string
}

func (r result) String() string {
	status := "survived"
	if r.GameOver {
		status = "lost"
	}
	return fmt.Sprintf("seed=%d wave=%d score=%d maxCombo=%d cities=%d %s t=%.0fs",
		r.Seed, r.Wave, r.Score, r.MaxCombo, r.Cities, status, r.SimTime)
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	// 绝对路径绕过嵌入数据，直接读取磁盘
	abs, err := filepath.Abs(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "data dir: %v\n", err)
		os.Exit(1)
	}
	bundle, err := config.LoadBundle(abs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	results := make([]result, *seeds)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(1, *workers))
	for i := range results {
		seed := int64(i + 1)
		g.Go(func() error {
			r, err := run(ctx, bundle, seed)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "batch aborted: %v\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Println(r)
		if r.Report != "" {
			fmt.Print(r.Report)
		}
	}
}

// run 模拟一局直到达到波次上限、城市全部被毁或单波超时
func run(ctx context.Context, bundle *config.Bundle, seed int64) (result, error) {
	opts := []game.Option{game.WithSeed(seed), game.WithSoundSink(nil), game.WithVerbose(*verbose)}
	if *telemetry {
		opts = append(opts, game.WithTelemetry())
	}
	w := game.NewWorld(bundle, opts...)
	sim := systems.NewSimulation(w)
	sim.Start()
	sim.ToggleAuto()

	level, waveStart := w.Level, w.Time
	for !w.GameOver && w.Level <= *waves {
		if err := ctx.Err(); err != nil {
			return result{}, err
		}
		if w.Level != level {
			level, waveStart = w.Level, w.Time
		}
		if w.Time-waveStart > waveTimeCap {
			return result{}, fmt.Errorf("seed %d: wave %d did not finish within %.0fs", seed, w.Level, waveTimeCap)
		}

		if w.Silo.State == types.SiloHidden && w.Silo.Cool <= 0 && w.Danger > siloDangerAt {
			sim.ToggleSilo()
		}
		sim.Advance(step)
	}

	r := result{
		Seed:     seed,
		Wave:     min(w.Level, *waves),
		Score:    w.Score,
		MaxCombo: w.MaxCombo,
		Cities:   w.AliveCities(),
		GameOver: w.GameOver,
		SimTime:  w.Time,
	}
	if *telemetry {
		r.Report = w.Telemetry.Report()
	}
	return r, nil
}
