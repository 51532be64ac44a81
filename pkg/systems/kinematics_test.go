package systems

import (
	"math"
	"testing"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/types"
)

func TestInterceptorDetonatesAtAimPoint(t *testing.T) {
	sim := newTestSimulation(t, 61)
	w := sim.World()
	quietWave(w)
	k := NewKinematicsSystem(w, sim.Combat())

	if !sim.Fire(640, 300) {
		t.Fatal("Expected launch to succeed")
	}
	m := w.Interceptors[0]
	for i := 0; i < 200 && len(w.Interceptors) > 0; i++ {
		k.UpdateInterceptors(0.05)
	}
	if len(w.Interceptors) != 0 {
		t.Fatal("Expected interceptor to detonate")
	}
	if w.Entities.Alive(m.ID) {
		t.Error("Expected interceptor entity marked for removal")
	}
	if len(w.Explosions) != 1 {
		t.Fatalf("Expected 1 explosion, got %d", len(w.Explosions))
	}
	e := w.Explosions[0]
	if e.X != 640 || e.Y != 300 {
		t.Errorf("Expected explosion at (640, 300), got (%v, %v)", e.X, e.Y)
	}
	if !e.Player {
		t.Error("Expected a player explosion")
	}
	if want := 102 * w.Upgrades.BlastScale; e.MaxRadius != want {
		t.Errorf("Expected max radius %v, got %v", want, e.MaxRadius)
	}
}

func TestGuidedInterceptorLeavesField(t *testing.T) {
	sim := newTestSimulation(t, 62)
	w := sim.World()
	quietWave(w)
	k := NewKinematicsSystem(w, sim.Combat())

	w.Interceptors = append(w.Interceptors, &components.Interceptor{
		ID:        w.Entities.CreateEntity(ecs.KindInterceptor),
		X:         -100,
		Y:         300,
		VX:        -500,
		Speed:     500,
		Duration:  5,
		Blast:     60,
		BaseIndex: -1,
		Guidance:  &components.Guidance{},
	})
	k.UpdateInterceptors(0.02)

	if len(w.Interceptors) != 0 {
		t.Fatal("Expected guided interceptor to detonate outside the field")
	}
	if len(w.Explosions) != 1 {
		t.Fatalf("Expected 1 explosion, got %d", len(w.Explosions))
	}
	if e := w.Explosions[0]; e.X != 0 || e.Y != 300 {
		t.Errorf("Expected explosion clamped to (0, 300), got (%v, %v)", e.X, e.Y)
	}
}

func TestExplosionLifetime(t *testing.T) {
	sim := newTestSimulation(t, 63)
	w := sim.World()
	quietWave(w)
	k := NewKinematicsSystem(w, sim.Combat())

	e := sim.Combat().SpawnExplosion(components.Explosion{X: 300, Y: 300, MaxRadius: 80, Life: 0.5, Player: true})
	if e.Radius != 0 || e.MaxLife != 0.5 {
		t.Fatalf("Expected a fresh explosion, radius %v max life %v", e.Radius, e.MaxLife)
	}
	peak := 0.0
	for i := 0; i < 3; i++ {
		k.UpdateExplosions(0.1)
		if e.Radius < 0 || e.Radius > e.MaxRadius {
			t.Fatalf("Radius %v outside [0, %v]", e.Radius, e.MaxRadius)
		}
		peak = math.Max(peak, e.Radius)
	}
	if peak == 0 {
		t.Error("Expected the explosion to grow")
	}
	for i := 0; i < 5; i++ {
		k.UpdateExplosions(0.1)
	}
	if len(w.Explosions) != 0 {
		t.Errorf("Expected explosion removed after its life, %d left", len(w.Explosions))
	}
}

func TestThreatReachesTarget(t *testing.T) {
	sim := newTestSimulation(t, 64)
	w := sim.World()
	quietWave(w)
	k := NewKinematicsSystem(w, sim.Combat())

	straightThreat(sim.Combat(), w.Cities[0].X, -20, cityTarget(w, 0))
	for i := 0; i < 1000 && len(w.Threats) > 0; i++ {
		k.UpdateThreats(0.05)
	}
	if len(w.Threats) != 0 {
		t.Fatal("Expected the threat to land")
	}
	if !w.Cities[0].Destroyed {
		t.Error("Expected the target city to be destroyed")
	}
}

func TestAircraftLeavesField(t *testing.T) {
	sim := newTestSimulation(t, 65)
	w := sim.World()
	quietWave(w)
	k := NewKinematicsSystem(w, sim.Combat())

	tests := []struct {
		name string
		x    float64
		vx   float64
	}{
		{"向右飞出", w.Width + 125, 100},
		{"向左飞出", -125, -100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &components.Aircraft{
				ID:           w.Entities.CreateEntity(ecs.KindAircraft),
				X:            tt.x,
				Y:            160,
				VX:           tt.vx,
				HitPoints:    3,
				FireCooldown: 10,
			}
			w.Aircraft = append(w.Aircraft, a)
			k.UpdateAircraft(0.1)
			if len(w.Aircraft) != 0 {
				t.Errorf("Expected aircraft removed at x %v", a.X)
			}
			if w.Entities.Alive(a.ID) {
				t.Error("Expected aircraft entity marked for removal")
			}
		})
	}
}

func TestRaiderBurst(t *testing.T) {
	sim := newTestSimulation(t, 66)
	w := sim.World()
	quietWave(w)
	k := NewKinematicsSystem(w, sim.Combat())

	r := &components.Raider{
		ID:        w.Entities.CreateEntity(ecs.KindRaider),
		X:         640,
		Y:         120,
		VX:        200,
		HitPoints: 2,
	}
	w.Raiders = append(w.Raiders, r)
	k.UpdateRaiders(0.01)

	if n := len(w.Threats); n != 4 && n != 5 {
		t.Fatalf("Expected a burst of 4 or 5, got %d", n)
	}
	for _, th := range w.Threats {
		if th.Variant != types.VariantSpit {
			t.Errorf("Expected spit threats, got %s", th.Variant)
		}
	}
	if r.VX >= 0 {
		t.Errorf("Expected raider to turn around, vx %v", r.VX)
	}
	if r.FireCooldown < 0.55 || r.FireCooldown > 1.25 {
		t.Errorf("Expected cooldown in [0.55, 1.25], got %v", r.FireCooldown)
	}
}
