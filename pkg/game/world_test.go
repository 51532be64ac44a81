package game

import (
	"testing"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/config"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/types"
)

func newTestWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	bundle, err := config.LoadBundle("../../data")
	if err != nil {
		t.Fatalf("Failed to load config bundle: %v", err)
	}
	return NewWorld(bundle, opts...)
}

func addThreat(w *World, x float64) *components.Threat {
	th := &components.Threat{ID: w.Entities.CreateEntity(ecs.KindThreat), Variant: types.VariantStandard, X: x}
	w.Threats = append(w.Threats, th)
	return th
}

func TestNewWorldDefaults(t *testing.T) {
	w := newTestWorld(t)

	if w.Width != 1280 || w.Height != 720 {
		t.Errorf("Expected 1280x720 playfield, got %vx%v", w.Width, w.Height)
	}
	if !w.Intro || w.Level != 1 || w.Pulse != 1 || w.PulseMax != 3 {
		t.Errorf("Unexpected initial flow: intro %v level %d pulse %d/%d", w.Intro, w.Level, w.Pulse, w.PulseMax)
	}
	if w.SelectedBase != -1 {
		t.Errorf("Expected no selected base, got %d", w.SelectedBase)
	}
	if w.AimX != w.Width/2 || w.AimY != w.HorizonY {
		t.Errorf("Expected aim at (%v, %v), got (%v, %v)", w.Width/2, w.HorizonY, w.AimX, w.AimY)
	}
	if _, ok := w.Sound.(*SoundQueue); !ok {
		t.Errorf("Expected default sound queue, got %T", w.Sound)
	}
	if w.Upgrades != DefaultUpgrades() {
		t.Errorf("Expected default upgrades, got %+v", w.Upgrades)
	}
	if w.CanOperate() {
		t.Error("Expected intro world not to accept commands")
	}
}

func TestWorldOptions(t *testing.T) {
	sink := NewSoundQueue(4)
	w := newTestWorld(t, WithSeed(42), WithSoundSink(sink), WithVerbose(true), WithTelemetry())

	if w.Sound != sink {
		t.Error("Expected the given sound sink")
	}
	if !w.Verbose || !w.Telemetry.Enabled {
		t.Error("Expected verbose logging and telemetry enabled")
	}
	if got, want := w.Rand.Float64(), NewRand(42).Float64(); got != want {
		t.Errorf("Expected seeded rand %v, got %v", want, got)
	}
}

func TestRemoveThreatKeepsOrder(t *testing.T) {
	w := newTestWorld(t)
	a, b, c, d := addThreat(w, 1), addThreat(w, 2), addThreat(w, 3), addThreat(w, 4)

	w.RemoveThreat(b.ID)
	want := []*components.Threat{a, c, d}
	if len(w.Threats) != len(want) {
		t.Fatalf("Expected %d threats, got %d", len(want), len(w.Threats))
	}
	for i := range want {
		if w.Threats[i] != want[i] {
			t.Errorf("Index %d: expected threat %d, got %d", i, want[i].ID, w.Threats[i].ID)
		}
	}
	if w.Entities.Alive(b.ID) {
		t.Error("Expected removed threat marked for destruction")
	}

	t.Run("重复移除被忽略", func(t *testing.T) {
		w.RemoveThreat(b.ID)
		if len(w.Threats) != 3 {
			t.Errorf("Expected 3 threats, got %d", len(w.Threats))
		}
	})

	t.Run("按 ID 查找", func(t *testing.T) {
		got, i := w.ThreatByID(d.ID)
		if got != d || i != 2 {
			t.Errorf("Expected threat %d at 2, got %v at %d", d.ID, got, i)
		}
		if got, i := w.ThreatByID(b.ID); got != nil || i != -1 {
			t.Errorf("Expected removed threat not found, got index %d", i)
		}
	})
}

func TestClearCombat(t *testing.T) {
	w := newTestWorld(t)
	th := addThreat(w, 10)
	m := &components.Interceptor{ID: w.Entities.CreateEntity(ecs.KindInterceptor)}
	w.Interceptors = append(w.Interceptors, m)
	w.Explosions = append(w.Explosions, &components.Explosion{MaxRadius: 40})

	w.ClearCombat()
	if len(w.Threats)+len(w.Interceptors)+len(w.Aircraft)+len(w.Raiders)+len(w.Explosions) != 0 {
		t.Error("Expected all combat collections empty")
	}
	for _, id := range []ecs.EntityID{th.ID, m.ID} {
		if _, ok := w.Entities.KindOf(id); ok {
			t.Errorf("Expected entity %d purged", id)
		}
	}
}

func TestLockAlive(t *testing.T) {
	w := newTestWorld(t)
	th := addThreat(w, 10)
	ref := components.LockRef{Kind: components.LockThreat, ID: th.ID}

	if w.LockAlive(components.LockRef{}) {
		t.Error("Expected empty lock to be dead")
	}
	if !w.LockAlive(ref) {
		t.Error("Expected lock on a live threat")
	}
	if w.LockAlive(components.LockRef{Kind: components.LockAircraft, ID: th.ID}) {
		t.Error("Expected lock with a mismatched kind to be dead")
	}
	w.RemoveThreat(th.ID)
	if w.LockAlive(ref) {
		t.Error("Expected lock on a removed threat to be dead")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	w := newTestWorld(t)
	w.Cities = []*components.City{{ID: "C1", X: 100}}
	w.Silo = &components.Silo{Ammo: 10}
	w.Interceptors = []*components.Interceptor{{Guidance: &components.Guidance{Turn: 2}}}
	w.Pulse, w.PulseCooldown = 1, 0

	s := w.Snapshot()
	if !s.PulseReady {
		t.Error("Expected pulse ready with a charge and no cooldown")
	}

	s.Cities[0].Destroyed = true
	s.Silo.Ammo = 0
	s.Interceptors[0].Guidance.Turn = 9
	if w.Cities[0].Destroyed {
		t.Error("Expected city copy")
	}
	if w.Silo.Ammo != 10 {
		t.Error("Expected silo copy")
	}
	if w.Interceptors[0].Guidance.Turn != 2 {
		t.Error("Expected guidance copy")
	}

	w.Cities[0].X = 500
	if s.Cities[0].X != 100 {
		t.Error("Expected snapshot unaffected by later world changes")
	}
}

func TestPendingSpawns(t *testing.T) {
	w := newTestWorld(t)
	w.Plan = make([]components.PlanEntry, 5)
	w.SpawnIndex = 2
	if got := w.PendingSpawns(); got != 3 {
		t.Errorf("Expected 3 pending spawns, got %d", got)
	}
}
