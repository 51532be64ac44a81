package systems

import (
	"math"
	"sort"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

// AutoDefenseSystem 自动防御
//
// 每帧按威胁评分从高到低为来袭导弹分配拦截：对每个就绪基地求拦截解，
// 取综合得分最高的基地发射，并在一段时间内把该导弹标记为已分配。
// 导弹处理完后用剩余基地拦截飞碟。
type AutoDefenseSystem struct {
	world  *game.World
	combat *CombatSystem
}

// NewAutoDefenseSystem 创建自动防御系统
func NewAutoDefenseSystem(w *game.World, combat *CombatSystem) *AutoDefenseSystem {
	return &AutoDefenseSystem{world: w, combat: combat}
}

// MaxAutoShots 每帧最多自动发射数
func MaxAutoShots(level int) int {
	return min(10, 3+max(0, level-1)/10)
}

type autoShot struct {
	base  int
	point Intercept
}

// Update 执行一轮自动拦截
// 返回本帧发射的拦截弹数
func (s *AutoDefenseSystem) Update() int {
	w := s.world
	if !w.CanOperate() {
		return 0
	}

	var ready []int
	for i, b := range w.Bases {
		if b.Ready() {
			ready = append(ready, i)
		}
	}
	if len(ready) == 0 {
		return 0
	}

	speed := InterceptorSpeed(w, 1.08)
	maxShots := MaxAutoShots(w.Level)
	shots := 0

	threats := make([]*components.Threat, len(w.Threats))
	copy(threats, w.Threats)
	scores := make(map[*components.Threat]float64, len(threats))
	for _, t := range threats {
		scores[t] = ThreatScore(w, t)
	}
	sort.SliceStable(threats, func(i, j int) bool { return scores[threats[i]] > scores[threats[j]] })

	for _, t := range threats {
		if shots >= maxShots || len(ready) == 0 {
			break
		}
		if t.ReserveUntil > w.Time {
			continue
		}

		var best autoShot
		found := false
		bestScore := math.Inf(-1)
		for _, bi := range ready {
			b := w.Bases[bi]
			ic, ok := FindIntercept(w, b.X, b.Y, t, speed)
			if !ok {
				continue
			}
			score := scores[t] - ic.T*42 - math.Abs(b.X-ic.X)*0.045
			if t.Target.Kind == components.TargetCity {
				score += 58
			}
			if t.Variant == types.VariantFast || t.Variant == types.VariantStealth {
				score += 36
			}
			if score > bestScore {
				bestScore = score
				best = autoShot{base: bi, point: ic}
				found = true
			}
		}
		if !found {
			continue
		}

		if s.combat.LaunchInterceptor(best.point.X, best.point.Y, best.base) {
			t.ReserveUntil = w.Time + utils.Clamp(best.point.T*0.9+0.24, 0.3, 1.28)
			shots++
			ready = removeIndex(ready, best.base)
		}
	}

	aircraft := make([]*components.Aircraft, len(w.Aircraft))
	copy(aircraft, w.Aircraft)
	sort.SliceStable(aircraft, func(i, j int) bool {
		return AircraftThreatScore(w, aircraft[i]) > AircraftThreatScore(w, aircraft[j])
	})

	for _, a := range aircraft {
		if shots >= maxShots+1 || len(ready) == 0 {
			break
		}
		score := AircraftThreatScore(w, a)

		var best autoShot
		found := false
		bestScore := math.Inf(-1)
		for _, bi := range ready {
			b := w.Bases[bi]
			ic, ok := FindAircraftIntercept(w, b.X, b.Y, a, speed, w.Time)
			if !ok {
				continue
			}
			sc := score - ic.T*45 - math.Abs(b.X-ic.X)*0.035
			if sc > bestScore {
				bestScore = sc
				best = autoShot{base: bi, point: ic}
				found = true
			}
		}
		if !found {
			continue
		}
		if s.combat.LaunchInterceptor(best.point.X, best.point.Y, best.base) {
			shots++
			ready = removeIndex(ready, best.base)
		}
	}
	return shots
}

// removeIndex 从就绪基地列表中移除指定基地下标
func removeIndex(ready []int, base int) []int {
	for i, b := range ready {
		if b == base {
			return append(ready[:i], ready[i+1:]...)
		}
	}
	return ready
}
