package systems

import (
	"testing"

	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
)

func TestSiloTransitionTable(t *testing.T) {
	cycle := []types.SiloState{
		types.SiloHidden, types.SiloOpening, types.SiloRising, types.SiloActive,
		types.SiloLowering, types.SiloClosing, types.SiloCooldown,
	}

	t.Run("循环内只能前进到下一个状态", func(t *testing.T) {
		for i, from := range cycle {
			for j, to := range cycle {
				want := j == (i+1)%len(cycle)
				if got := CanTransition(from, to); got != want {
					t.Errorf("CanTransition(%s, %s): expected %v, got %v", from, to, want, got)
				}
			}
		}
	})

	t.Run("任何循环状态都可以进入 destroyed", func(t *testing.T) {
		for _, from := range cycle {
			if !CanTransition(from, types.SiloDestroyed) {
				t.Errorf("Expected %s -> destroyed to be allowed", from)
			}
		}
	})

	t.Run("destroyed 不能自行离开", func(t *testing.T) {
		for _, to := range cycle {
			if CanTransition(types.SiloDestroyed, to) {
				t.Errorf("Expected destroyed -> %s to be rejected", to)
			}
		}
	})
}

func TestSiloRejectsSkippedState(t *testing.T) {
	sim := newTestSimulation(t, 91)
	w := sim.World()
	silo := w.Silo

	if sim.Silo().transition(silo, types.SiloActive, false) {
		t.Error("Expected hidden -> active to be rejected")
	}
	if silo.State != types.SiloHidden {
		t.Errorf("Expected state to stay hidden, got %s", silo.State)
	}
}

func TestSiloCycle(t *testing.T) {
	sim := newTestSimulation(t, 92)
	w := sim.World()
	quietWave(w)
	s := sim.Silo()
	silo := w.Silo

	if silo.State != types.SiloHidden {
		t.Fatalf("Expected silo hidden at wave start, got %s", silo.State)
	}
	if s.Toggle() {
		t.Error("Expected deploy to be refused while cooling down")
	}

	silo.Cool = 0
	if !s.Toggle() {
		t.Fatal("Expected deploy to be accepted")
	}

	var seen []types.SiloState
	for i := 0; i < 200 && silo.State != types.SiloActive; i++ {
		s.Update(0.05)
		if len(seen) == 0 || seen[len(seen)-1] != silo.State {
			seen = append(seen, silo.State)
		}
	}
	want := []types.SiloState{types.SiloOpening, types.SiloRising, types.SiloActive}
	if len(seen) != len(want) {
		t.Fatalf("Expected states %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("State %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
	if silo.Lift != 1 || silo.DoorOpen != 1 {
		t.Errorf("Expected fully raised silo, lift %v door %v", silo.Lift, silo.DoorOpen)
	}

	if !s.Toggle() {
		t.Fatal("Expected retract to be accepted while active")
	}
	s.Update(0.05)
	if silo.State != types.SiloLowering {
		t.Errorf("Expected lowering on the next tick, got %s", silo.State)
	}

	t.Run("收回后完成整个循环并补满弹药", func(t *testing.T) {
		silo.Ammo = 3
		for i := 0; i < 400 && silo.State != types.SiloHidden; i++ {
			s.Update(0.05)
		}
		if silo.State != types.SiloHidden {
			t.Fatalf("Expected silo back to hidden, got %s", silo.State)
		}
		if silo.Ammo != silo.MaxAmmo {
			t.Errorf("Expected ammo refilled to %d, got %d", silo.MaxAmmo, silo.Ammo)
		}
	})
}

func TestSiloBarrage(t *testing.T) {
	sim := newTestSimulation(t, 93)
	w := sim.World()
	quietWave(w)
	s := sim.Silo()
	silo := w.Silo

	silo.Cool = 0
	s.Toggle()
	for i := 0; i < 200 && silo.State != types.SiloActive; i++ {
		s.Update(0.05)
	}
	parkedThreat(w, silo.X+60, 260)
	parkedThreat(w, silo.X-120, 200)

	ammo := silo.Ammo
	s.Update(0.05)
	fired := ammo - silo.Ammo
	if fired <= 0 {
		t.Fatal("Expected the barrage to fire")
	}
	if len(w.Interceptors) != fired {
		t.Errorf("Expected %d guided interceptors, got %d", fired, len(w.Interceptors))
	}
	for _, m := range w.Interceptors {
		if m.Guidance == nil {
			t.Fatal("Expected silo interceptors to be guided")
		}
		if m.BaseIndex != -1 {
			t.Errorf("Expected base index -1, got %d", m.BaseIndex)
		}
	}

	t.Run("游戏结束时强制收回", func(t *testing.T) {
		w.GameOver = true
		s.Update(0.05)
		if silo.State != types.SiloLowering {
			t.Errorf("Expected lowering after game over, got %s", silo.State)
		}
	})
}

func TestSiloDestroyedAndReset(t *testing.T) {
	sim := newTestSimulation(t, 94)
	w := sim.World()
	quietWave(w)
	s := sim.Silo()
	silo := w.Silo

	silo.Destroyed = true
	s.Update(0.05)
	if silo.State != types.SiloDestroyed {
		t.Fatalf("Expected destroyed state, got %s", silo.State)
	}
	if s.Toggle() {
		t.Error("Expected toggle to be refused on a destroyed silo")
	}

	repaired := false
	for i := 0; i < 50 && !repaired; i++ {
		s.ResetForWave()
		repaired = !silo.Destroyed
		if !repaired && (silo.State != types.SiloDestroyed || silo.Ammo != 0) {
			t.Fatalf("Expected unrepaired silo to stay destroyed and empty, got %s ammo %d", silo.State, silo.Ammo)
		}
	}
	if !repaired {
		t.Fatal("Expected silo to be repaired within 50 wave resets")
	}
	if silo.State != types.SiloHidden {
		t.Errorf("Expected repaired silo hidden, got %s", silo.State)
	}
	if want := 460 + 70*w.Level; silo.MaxAmmo != want || silo.Ammo != want {
		t.Errorf("Expected ammo %d/%d, got %d/%d", want, want, silo.Ammo, silo.MaxAmmo)
	}
	if silo.Cool != 0.95 {
		t.Errorf("Expected cool 0.95, got %v", silo.Cool)
	}
}

func TestSiloDeployRejectedOutsidePlay(t *testing.T) {
	tests := []struct {
		name  string
		setup func(w *game.World)
	}{
		{"商店间歇", func(w *game.World) { w.Shop = true }},
		{"游戏结束", func(w *game.World) { w.GameOver = true }},
		{"开场画面", func(w *game.World) { w.Intro = true }},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t, int64(95+i))
			w := sim.World()
			quietWave(w)
			silo := w.Silo
			silo.Cool = 0
			tt.setup(w)

			if sim.ToggleSilo() {
				t.Error("Expected deploy to be rejected")
			}
			if silo.Command != types.SiloCommandIdle {
				t.Errorf("Expected no pending command, got %v", silo.Command)
			}
			for i := 0; i < 40; i++ {
				sim.Silo().Update(0.05)
			}
			if silo.State != types.SiloHidden {
				t.Errorf("Expected silo to stay hidden, got %s", silo.State)
			}
		})
	}

	t.Run("进入商店前的展开指令被取消", func(t *testing.T) {
		sim := newTestSimulation(t, 99)
		w := sim.World()
		quietWave(w)
		w.Silo.Cool = 0
		if !sim.ToggleSilo() {
			t.Fatal("Expected deploy to be accepted during play")
		}
		w.Shop = true
		sim.Silo().Update(0.05)
		if w.Silo.State != types.SiloHidden || w.Silo.Command != types.SiloCommandIdle {
			t.Errorf("Expected pending deploy dropped, state %s command %v", w.Silo.State, w.Silo.Command)
		}
	})
}
