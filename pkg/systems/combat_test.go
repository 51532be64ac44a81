package systems

import (
	"math"
	"testing"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/types"
	"pgregory.net/rapid"
)

func TestLaunchInterceptorBaseFire(t *testing.T) {
	sim := newTestSimulation(t, 11)
	w := sim.World()
	quietWave(w)

	b := w.Bases[1]
	b.Ammo = 1
	b.Cooldown = 0
	tx, ty := b.X, b.Y-200

	if !sim.Combat().LaunchInterceptor(tx, ty, 1) {
		t.Fatal("Expected launch to succeed")
	}
	if b.Ammo != 0 {
		t.Errorf("Expected ammo 0, got %d", b.Ammo)
	}
	if b.Cooldown <= 0 {
		t.Errorf("Expected positive cooldown, got %v", b.Cooldown)
	}
	if len(w.Interceptors) != 1 {
		t.Fatalf("Expected 1 interceptor, got %d", len(w.Interceptors))
	}

	m := w.Interceptors[0]
	want := 200 / InterceptorSpeed(w, 1)
	if math.Abs(m.Duration-want) > 1e-9 {
		t.Errorf("Expected flight duration %.5f, got %.5f", want, m.Duration)
	}
	if m.BaseIndex != 1 {
		t.Errorf("Expected base index 1, got %d", m.BaseIndex)
	}

	t.Run("弹药耗尽后再次发射失败", func(t *testing.T) {
		for _, other := range w.Bases {
			other.Ammo = 0
		}
		if sim.Combat().LaunchInterceptor(tx, ty, 1) {
			t.Error("Expected launch to fail with no ammo anywhere")
		}
		if b.Ammo != 0 {
			t.Errorf("Expected ammo to stay 0, got %d", b.Ammo)
		}
	})
}

func TestLaunchInterceptorBaseSelection(t *testing.T) {
	sim := newTestSimulation(t, 12)
	w := sim.World()
	quietWave(w)

	t.Run("未指定基地时选择横向最近的基地", func(t *testing.T) {
		right := w.Bases[2]
		before := right.Ammo
		if !sim.Combat().LaunchInterceptor(right.X+5, 200, -1) {
			t.Fatal("Expected launch to succeed")
		}
		if right.Ammo != before-1 {
			t.Errorf("Expected right base to fire, ammo %d -> %d", before, right.Ammo)
		}
	})

	t.Run("最近的基地冷却中时发射失败", func(t *testing.T) {
		left := w.Bases[0]
		left.Cooldown = 1
		w.Shake = 0
		if sim.Combat().LaunchInterceptor(left.X, 200, -1) {
			t.Error("Expected launch to fail while the nearest base is cooling down")
		}
		if w.Shake <= 0 {
			t.Error("Expected a small screen shake on failed launch")
		}
	})

	t.Run("瞄准点不低于地面上方 56", func(t *testing.T) {
		mid := w.Bases[1]
		mid.Cooldown = 0
		n := len(w.Interceptors)
		if !sim.Combat().LaunchInterceptor(mid.X, w.GroundY, 1) {
			t.Fatal("Expected launch to succeed")
		}
		m := w.Interceptors[n]
		if m.TargetY != w.GroundY-56 {
			t.Errorf("Expected target y %v, got %v", w.GroundY-56, m.TargetY)
		}
	})

	t.Run("商店间歇期间不能发射", func(t *testing.T) {
		w.Shop = true
		defer func() { w.Shop = false }()
		w.Bases[1].Cooldown = 0
		if sim.Combat().LaunchInterceptor(w.Bases[1].X, 200, 1) {
			t.Error("Expected launch to fail during shop")
		}
	})
}

// TestBaseAmmoNeverNegative 任意发射序列后弹药都不为负
func TestBaseAmmoNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sim := newTestSimulation(t, rapid.Int64().Draw(rt, "seed"))
		w := sim.World()
		quietWave(w)
		for _, b := range w.Bases {
			b.Ammo = rapid.IntRange(0, 3).Draw(rt, "ammo")
		}

		n := rapid.IntRange(1, 30).Draw(rt, "shots")
		for i := 0; i < n; i++ {
			x := rapid.Float64Range(0, w.Width).Draw(rt, "x")
			base := rapid.IntRange(-1, 2).Draw(rt, "base")
			sim.Fire(x, 150)
			sim.FireFrom(x, 150, base)
			for _, b := range w.Bases {
				b.Cooldown = 0
			}
		}
		for _, b := range w.Bases {
			if b.Ammo < 0 {
				rt.Fatalf("Base %s ammo went negative: %d", b.ID, b.Ammo)
			}
		}
	})
}

func TestSplashKill(t *testing.T) {
	sim := newTestSimulation(t, 21)
	w := sim.World()
	quietWave(w)

	impactX := 540.0
	base := w.Bases[1]
	base.X = impactX - 40
	city := w.Cities[2]
	city.X = impactX + 90
	for _, p := range w.Turrets {
		p.X = -1000
	}

	heavy := &components.Threat{Variant: types.VariantHeavy, Blast: 150}
	sim.Combat().ImpactThreat(heavy, impactX, w.GroundY-2)

	if !base.Destroyed {
		t.Error("Expected base within 0.68×150 to be destroyed")
	}
	if base.Ammo != 0 {
		t.Errorf("Expected destroyed base ammo 0, got %d", base.Ammo)
	}
	if !city.Destroyed {
		t.Error("Expected city within 0.75×150 to be destroyed")
	}

	t.Run("爆炸半径不超过 100 时无溅射", func(t *testing.T) {
		other := w.Cities[0]
		other.Destroyed = false
		other.X = 700
		small := &components.Threat{Variant: types.VariantStandard, Blast: 100}
		sim.Combat().ImpactThreat(small, 690, w.GroundY-2)
		if other.Destroyed {
			t.Error("Expected no splash for blast 100")
		}
	})

	t.Run("隐藏的发射井不受溅射", func(t *testing.T) {
		silo := w.Silo
		silo.X, silo.Lift, silo.Destroyed = 900, 0, false
		big := &components.Threat{Variant: types.VariantHeavy, Blast: 150}
		sim.Combat().ImpactThreat(big, 900, w.GroundY-2)
		if silo.Destroyed {
			t.Error("Expected hidden silo to survive splash")
		}
		silo.Lift = 0.5
		sim.Combat().ImpactThreat(big, 900, w.GroundY-2)
		if !silo.Destroyed {
			t.Error("Expected raised silo to be destroyed by splash")
		}
	})
}

func TestImpactThreat(t *testing.T) {
	sim := newTestSimulation(t, 22)
	w := sim.World()
	quietWave(w)
	city := w.Cities[3]

	t.Run("诱饵命中不造成破坏", func(t *testing.T) {
		decoy := &components.Threat{
			Variant: types.VariantDecoy,
			Blast:   200,
			Target:  components.TargetRef{Kind: components.TargetCity, ID: city.ID},
		}
		sim.Combat().ImpactThreat(decoy, city.X, w.GroundY-2)
		if city.Destroyed {
			t.Error("Expected decoy impact to leave the city intact")
		}
	})

	t.Run("普通弹摧毁瞄准的城市", func(t *testing.T) {
		th := &components.Threat{
			Variant: types.VariantStandard,
			Blast:   60,
			Target:  components.TargetRef{Kind: components.TargetCity, ID: city.ID},
		}
		sim.Combat().ImpactThreat(th, city.X, w.GroundY-2)
		if !city.Destroyed {
			t.Error("Expected targeted city to be destroyed")
		}
	})

	t.Run("目标已被摧毁时不重复结算", func(t *testing.T) {
		n := len(w.Explosions)
		th := &components.Threat{
			Variant: types.VariantStandard,
			Blast:   60,
			Target:  components.TargetRef{Kind: components.TargetCity, ID: city.ID},
		}
		sim.Combat().ImpactThreat(th, city.X, w.GroundY-2)
		if got := len(w.Explosions) - n; got != 1 {
			t.Errorf("Expected only the impact explosion, got %d new explosions", got)
		}
	})
}

func TestComboScoring(t *testing.T) {
	sim := newTestSimulation(t, 31)
	w := sim.World()
	quietWave(w)
	c := sim.Combat()

	kill := func(t *testing.T) {
		t.Helper()
		th := straightThreat(c, 640, 100, cityTarget(w, 0))
		if !c.DamageThreat(th, th.X, th.Y, 1) {
			t.Fatal("Expected standard threat to die from one hit")
		}
		w.RemoveThreat(th.ID)
	}

	kill(t)
	if w.Score != 75 {
		t.Errorf("Expected score 75 after first kill, got %d", w.Score)
	}
	if w.Combo != 1 || w.ComboTimer != comboWindow {
		t.Errorf("Expected combo 1 with timer %v, got %d / %v", comboWindow, w.Combo, w.ComboTimer)
	}

	kill(t)
	if w.Score != 75+82 {
		t.Errorf("Expected score %d after second kill, got %d", 75+82, w.Score)
	}

	t.Run("击杀刷新连击计时", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			sim.updateTimers(0.1)
		}
		if w.Combo != 2 {
			t.Fatalf("Expected combo 2 before expiry, got %d", w.Combo)
		}
		kill(t)
		if w.ComboTimer != comboWindow {
			t.Errorf("Expected refreshed timer %v, got %v", comboWindow, w.ComboTimer)
		}
		for i := 0; i < 30; i++ {
			sim.updateTimers(0.1)
		}
		if w.Combo != 3 {
			t.Errorf("Expected combo to survive after refresh, got %d", w.Combo)
		}
	})

	t.Run("计时耗尽后连击归零", func(t *testing.T) {
		for i := 0; i < 45; i++ {
			sim.updateTimers(0.1)
		}
		if w.Combo != 0 {
			t.Errorf("Expected combo 0 after expiry, got %d", w.Combo)
		}
		if w.MaxCombo != 3 {
			t.Errorf("Expected max combo 3, got %d", w.MaxCombo)
		}
	})

	t.Run("每 12 连击补充一次脉冲充能", func(t *testing.T) {
		w.Combo = 11
		w.Pulse = 1
		kill(t)
		if w.Pulse != 2 {
			t.Errorf("Expected pulse 2, got %d", w.Pulse)
		}
		w.Combo = 23
		w.Pulse = w.PulseMax
		kill(t)
		if w.Pulse != w.PulseMax {
			t.Errorf("Expected pulse to stay at max %d, got %d", w.PulseMax, w.Pulse)
		}
	})

	t.Run("每 5 连击显示浮动提示", func(t *testing.T) {
		w.FloatingTexts = w.FloatingTexts[:0]
		w.Combo = 4
		kill(t)
		if len(w.FloatingTexts) != 1 || w.FloatingTexts[0].Text != "5x COMBO!" {
			t.Errorf("Expected a 5x COMBO! text, got %+v", w.FloatingTexts)
		}
	})
}

func TestCarrierTakesFourHits(t *testing.T) {
	sim := newTestSimulation(t, 41)
	w := sim.World()
	quietWave(w)
	c := sim.Combat()

	th := c.CreateThreat(types.VariantCarrier, 640, -150, cityTarget(w, 2), ThreatOverrides{})
	if th.HitPoints != 3 {
		t.Fatalf("Expected carrier hit points 3, got %v", th.HitPoints)
	}
	for i := 1; i <= 3; i++ {
		if c.DamageThreat(th, th.X, th.Y, threatDamage(th)) {
			t.Fatalf("Carrier died after %d hits", i)
		}
	}
	if !c.DamageThreat(th, th.X, th.Y, threatDamage(th)) {
		t.Error("Expected carrier to die on the 4th hit")
	}
	if th.HitPoints != 0 {
		t.Errorf("Expected hit points 0, got %v", th.HitPoints)
	}
}

func TestExplosionRadius(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		want    float64
	}{
		{"刚出现时为 0", 0, 0},
		{"膨胀结束时达到最大", 0.36, 100},
		{"寿命结束时为 0", 1, 0},
		{"超出寿命为 0", 1.5, 0},
		{"负时间为 0", -0.1, 0},
		{"NaN 为 0", math.NaN(), 0},
		{"无穷大为 0", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExplosionRadius(tt.elapsed, 100, 0.36, 1)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("半径始终在 [0, max] 内", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			life := rapid.Float64Range(0.1, 3).Draw(rt, "life")
			maxR := rapid.Float64Range(1, 300).Draw(rt, "max")
			shake := rapid.Float64Range(0.05, 0.95).Draw(rt, "shake")
			elapsed := rapid.Float64Range(-1, 4).Draw(rt, "elapsed")
			r := ExplosionRadius(elapsed, maxR, shake, life)
			if r < 0 || r > maxR+1e-9 {
				rt.Fatalf("Radius %v outside [0, %v]", r, maxR)
			}
		})
	})
}

func TestUseAreaPulse(t *testing.T) {
	sim := newTestSimulation(t, 51)
	w := sim.World()
	quietWave(w)
	w.Pulse = 2

	if !sim.AreaPulse() {
		t.Fatal("Expected area pulse to fire")
	}
	if w.Pulse != 1 {
		t.Errorf("Expected pulse 1, got %d", w.Pulse)
	}
	if w.PulseCooldown != pulseCooldown {
		t.Errorf("Expected cooldown %v, got %v", pulseCooldown, w.PulseCooldown)
	}
	last := w.Explosions[len(w.Explosions)-1]
	if !last.Pulse || !last.Player {
		t.Error("Expected a player pulse explosion")
	}

	if sim.AreaPulse() {
		t.Error("Expected area pulse to fail while cooling down")
	}

	w.PulseCooldown = 0
	w.Pulse = 0
	if sim.AreaPulse() {
		t.Error("Expected area pulse to fail without charges")
	}
}

func TestSplitScenario(t *testing.T) {
	sim := newTestSimulation(t, 61)
	w := sim.World()
	quietWave(w)
	c := sim.Combat()

	th := c.CreateThreat(types.VariantSplit, 640, -60, cityTarget(w, 1), ThreatOverrides{})
	th.SplitAt = 0.42
	th.Elapsed = th.Duration * 0.45
	th.X, th.Y = threatPosition(th)
	id := th.ID

	k := NewKinematicsSystem(w, c)
	k.UpdateThreats(0)

	if got, _ := w.ThreatByID(id); got != nil {
		t.Error("Expected original split threat to be removed")
	}
	if w.Entities.Alive(id) {
		t.Error("Expected original split threat to be marked destroyed")
	}
	shards := 0
	for _, s := range w.Threats {
		if s.Variant != types.VariantShard {
			t.Errorf("Unexpected variant %s after split", s.Variant)
		}
		shards++
	}
	if shards < 2 || shards > 3 {
		t.Errorf("Expected 2 or 3 shards, got %d", shards)
	}

	k.UpdateThreats(0)
	if len(w.Threats) != shards {
		t.Errorf("Expected shards not to split again, got %d threats", len(w.Threats))
	}
}

func TestRunCollisions(t *testing.T) {
	sim := newTestSimulation(t, 71)
	w := sim.World()
	quietWave(w)
	c := sim.Combat()

	th := straightThreat(c, 400, 200, cityTarget(w, 0))
	th.X, th.Y = 400, 200
	ex := c.SpawnExplosion(components.Explosion{X: 410, Y: 200, MaxRadius: 60, Player: true})
	ex.Radius = 40

	c.RunCollisions()
	if len(w.Threats) != 0 {
		t.Errorf("Expected threat inside player blast to be destroyed, %d remain", len(w.Threats))
	}

	t.Run("敌方爆炸不参与碰撞", func(t *testing.T) {
		quietWave(w)
		th := straightThreat(c, 400, 200, cityTarget(w, 0))
		th.X, th.Y = 400, 200
		enemy := c.SpawnExplosion(components.Explosion{X: 400, Y: 200, MaxRadius: 60})
		enemy.Radius = 60
		c.RunCollisions()
		if len(w.Threats) != 1 {
			t.Errorf("Expected threat to survive enemy blast, got %d threats", len(w.Threats))
		}
	})

	t.Run("飞碟被两次命中后击毁", func(t *testing.T) {
		quietWave(w)
		w.Aircraft = append(w.Aircraft, &components.Aircraft{
			ID: w.Entities.CreateEntity(ecs.KindAircraft), X: 300, Y: 150, VX: 60, HitPoints: 2,
		})
		ex := c.SpawnExplosion(components.Explosion{X: 300, Y: 150, MaxRadius: 80, Player: true})
		ex.Radius = 50
		c.RunCollisions()
		if len(w.Aircraft) != 1 || w.Aircraft[0].HitPoints != 1 {
			t.Fatalf("Expected aircraft to survive the first hit with 1 hp")
		}
		w.Combo = 0
		before := w.Score
		c.RunCollisions()
		if len(w.Aircraft) != 0 {
			t.Error("Expected aircraft destroyed on the second hit")
		}
		if w.Score-before != 260 {
			t.Errorf("Expected 260 points for the UFO, got %d", w.Score-before)
		}
	})
}
