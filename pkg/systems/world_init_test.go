package systems

import (
	"testing"

	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/types"
)

func TestBuildWorldLayout(t *testing.T) {
	w := newTestWorld(t, 31)
	BuildWorld(w)

	if len(w.Cities) != 6 || len(w.Bases) != 3 || len(w.Turrets) != 2 {
		t.Fatalf("Expected 6 cities, 3 bases, 2 turrets, got %d/%d/%d", len(w.Cities), len(w.Bases), len(w.Turrets))
	}

	t.Run("城市均匀分布在中间 86% 宽度", func(t *testing.T) {
		left, right := w.Width*0.07, w.Width*0.93
		for i, c := range w.Cities {
			if c.X < left-1e-9 || c.X > right+1e-9 {
				t.Errorf("City %d at %v outside [%v, %v]", i, c.X, left, right)
			}
			if i > 0 && c.X <= w.Cities[i-1].X {
				t.Errorf("Cities out of order at %d", i)
			}
			if c.W < 46 {
				t.Errorf("City %d too narrow: %v", i, c.W)
			}
		}
	})

	t.Run("外侧基地位于外侧两对城市之间", func(t *testing.T) {
		c := w.Cities
		if b := w.Bases[0]; b.X <= c[0].X || b.X >= c[1].X {
			t.Errorf("Base B1 at %v not between %v and %v", b.X, c[0].X, c[1].X)
		}
		if b := w.Bases[2]; b.X <= c[4].X || b.X >= c[5].X {
			t.Errorf("Base B3 at %v not between %v and %v", b.X, c[4].X, c[5].X)
		}
		for _, b := range w.Bases {
			if b.Y != w.GroundY || b.Ammo != b.MaxAmmo {
				t.Errorf("Base %s: unexpected y %v ammo %d/%d", b.ID, b.Y, b.Ammo, b.MaxAmmo)
			}
		}
	})

	t.Run("近防炮和发射井", func(t *testing.T) {
		c := w.Cities
		if want := (c[1].X + c[2].X) / 2; w.Turrets[0].X != want {
			t.Errorf("Expected left turret at %v, got %v", want, w.Turrets[0].X)
		}
		if want := (c[3].X + c[4].X) / 2; w.Turrets[1].X != want {
			t.Errorf("Expected right turret at %v, got %v", want, w.Turrets[1].X)
		}
		if w.Silo.X != w.Width/2 || w.Silo.Y <= w.GroundY {
			t.Errorf("Expected silo centered below ground, got (%v, %v)", w.Silo.X, w.Silo.Y)
		}
		if w.Silo.State != types.SiloHidden {
			t.Errorf("Expected hidden silo, got %s", w.Silo.State)
		}
	})
}

func TestResetGame(t *testing.T) {
	sim := newTestSimulation(t, 32)
	w := sim.World()

	w.Level, w.Score, w.Combo = 9, 4000, 7
	w.Upgrades.BlastScale = 1.4
	w.Cities[2].Destroyed = true
	w.SelectedBase = 1
	parkedThreat(w, 100, 100)
	orphan := w.Entities.CreateEntity(ecs.KindRaider)

	sim.Restart()
	if w.Entities.Alive(orphan) {
		t.Errorf("Expected entity registry cleared, id %d still alive", orphan)
	}
	if w.Level != 1 || w.Score != 0 || w.Combo != 0 {
		t.Errorf("Expected fresh counters, got level %d score %d combo %d", w.Level, w.Score, w.Combo)
	}
	if w.Upgrades.BlastScale != 1 {
		t.Errorf("Expected upgrades reset, got %v", w.Upgrades.BlastScale)
	}
	if w.AliveCities() != 6 {
		t.Errorf("Expected all cities rebuilt, got %d", w.AliveCities())
	}
	if len(w.Threats) != 0 || w.SelectedBase != -1 {
		t.Errorf("Expected an empty field with no selection, threats %d base %d", len(w.Threats), w.SelectedBase)
	}
	if w.WavePause != 2.5 {
		t.Errorf("Expected first wave after 2.5s, got %v", w.WavePause)
	}
}
