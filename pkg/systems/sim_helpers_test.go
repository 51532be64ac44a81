package systems

import (
	"testing"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/config"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
)

// newTestWorld 加载 data/ 下的配置表并创建空世界（开场状态）
func newTestWorld(t *testing.T, seed int64, opts ...game.Option) *game.World {
	t.Helper()
	bundle, err := config.LoadBundle("../../data")
	if err != nil {
		t.Fatalf("Failed to load config bundle: %v", err)
	}
	opts = append([]game.Option{game.WithSeed(seed)}, opts...)
	return game.NewWorld(bundle, opts...)
}

// newTestSimulation 创建已开始的对局，第一波尚在间歇中
func newTestSimulation(t *testing.T, seed int64, opts ...game.Option) *Simulation {
	t.Helper()
	sim := NewSimulation(newTestWorld(t, seed, opts...))
	sim.Start()
	return sim
}

// quietWave 清空当前波次的计划和配额，让场上只剩测试手动放置的实体
func quietWave(w *game.World) {
	w.ClearCombat()
	w.Plan = nil
	w.SpawnIndex = 0
	w.AircraftQuota = 0
	w.RaiderQuota = 0
	w.WavePause = 1e6
}

// cityTarget 以指定城市为目标
func cityTarget(w *game.World, i int) components.Target {
	c := w.Cities[i]
	return components.Target{
		Ref: components.TargetRef{Kind: components.TargetCity, ID: c.ID},
		X:   c.X,
		Y:   w.GroundY - 30,
	}
}

// straightThreat 创建无摆动、无制导的普通弹
func straightThreat(s *CombatSystem, sx, sy float64, target components.Target) *components.Threat {
	t := s.CreateThreat(types.VariantStandard, sx, sy, target, ThreatOverrides{})
	t.ZigAmp, t.ZigFreq, t.ZigPhase, t.Homing = 0, 0, 0, 0
	return t
}
