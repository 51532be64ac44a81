package game

import "github.com/decker502/overdrive/pkg/components"

// Snapshot 渲染方使用的只读快照
// 所有集合都是值拷贝，渲染期间修改世界不会影响快照
type Snapshot struct {
	Time       float64
	Level      int
	Score      int
	Combo      int
	MaxCombo   int
	Danger     float64
	Shake      float64
	Flash      float64
	Chromatic  float64
	Intro      bool
	GameOver   bool
	Shop       bool
	ShopTimer  float64
	Auto       bool
	Pulse      int
	PulseMax   int
	PulseReady bool

	Message     string
	MessageTime float64
	Note        string
	NoteTime    float64

	Weather         WeatherState
	TurretFireLevel float64
	AimX, AimY      float64
	SelectedBase    int
	GroundY         float64
	HorizonY        float64

	Threats       []components.Threat
	Interceptors  []components.Interceptor
	Aircraft      []components.Aircraft
	Raiders       []components.Raider
	Explosions    []components.Explosion
	FloatingTexts []components.FloatingText
	Cities        []components.City
	Bases         []components.LaunchBase
	Turrets       []components.Turret
	Silo          *components.Silo
}

// Snapshot 拷贝当前世界状态
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Time:            w.Time,
		Level:           w.Level,
		Score:           w.Score,
		Combo:           w.Combo,
		MaxCombo:        w.MaxCombo,
		Danger:          w.Danger,
		Shake:           w.Shake,
		Flash:           w.Flash,
		Chromatic:       w.Chromatic,
		Intro:           w.Intro,
		GameOver:        w.GameOver,
		Shop:            w.Shop,
		ShopTimer:       w.ShopTimer,
		Auto:            w.Auto,
		Pulse:           w.Pulse,
		PulseMax:        w.PulseMax,
		PulseReady:      w.Pulse > 0 && w.PulseCooldown <= 0,
		Message:         w.Message,
		MessageTime:     w.MessageTime,
		Note:            w.Note,
		NoteTime:        w.NoteTime,
		Weather:         w.Weather,
		TurretFireLevel: w.TurretFireLevel,
		AimX:            w.AimX,
		AimY:            w.AimY,
		SelectedBase:    w.SelectedBase,
		GroundY:         w.GroundY,
		HorizonY:        w.HorizonY,
		Threats:         copyAll(w.Threats),
		Interceptors:    copyAll(w.Interceptors),
		Aircraft:        copyAll(w.Aircraft),
		Raiders:         copyAll(w.Raiders),
		Explosions:      copyAll(w.Explosions),
		FloatingTexts:   copyAll(w.FloatingTexts),
		Cities:          copyAll(w.Cities),
		Bases:           copyAll(w.Bases),
		Turrets:         copyAll(w.Turrets),
	}
	for i := range s.Interceptors {
		if g := s.Interceptors[i].Guidance; g != nil {
			gc := *g
			s.Interceptors[i].Guidance = &gc
		}
	}
	if w.Silo != nil {
		silo := *w.Silo
		s.Silo = &silo
	}
	return s
}

func copyAll[T any](src []*T) []T {
	out := make([]T, len(src))
	for i, p := range src {
		out[i] = *p
	}
	return out
}
