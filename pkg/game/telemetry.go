package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Counter 遥测计数项
type Counter int

const (
	CounterSpawned Counter = iota
	CounterKills
	CounterImpacts
	CounterCitiesLost
	CounterInterceptors
	CounterSiloShots
	CounterTurretRounds
	counterCount
)

var counterNames = [counterCount]string{
	"spawned", "kills", "impacts", "citiesLost", "interceptors", "siloShots", "turretRounds",
}

// WaveStats 单个波次的统计
type WaveStats struct {
	Wave     int
	Weather  string
	Counters [counterCount]int
}

// Get 读取计数
func (s *WaveStats) Get(c Counter) int {
	return s.Counters[c]
}

// Telemetry 逐波调试统计
// 关闭时所有调用都是空操作
type Telemetry struct {
	Enabled   bool
	SessionID uuid.UUID
	Waves     []WaveStats
}

// NewTelemetry 创建遥测记录，每个会话分配一个 uuid
func NewTelemetry() *Telemetry {
	return &Telemetry{SessionID: uuid.New()}
}

// BeginWave 开始记录新波次
func (t *Telemetry) BeginWave(wave int, weather string) {
	if t == nil || !t.Enabled {
		return
	}
	t.Waves = append(t.Waves, WaveStats{Wave: wave, Weather: weather})
}

// Add 累加当前波次的计数
func (t *Telemetry) Add(c Counter, n int) {
	if t == nil || !t.Enabled || len(t.Waves) == 0 {
		return
	}
	t.Waves[len(t.Waves)-1].Counters[c] += n
}

// Current 当前波次统计，未开始时返回 nil
func (t *Telemetry) Current() *WaveStats {
	if t == nil || len(t.Waves) == 0 {
		return nil
	}
	return &t.Waves[len(t.Waves)-1]
}

// Report 生成文本报告
func (t *Telemetry) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "session %s\n", t.SessionID)
	for _, w := range t.Waves {
		fmt.Fprintf(&sb, "wave %d [%s]", w.Wave, w.Weather)
		for c := Counter(0); c < counterCount; c++ {
			fmt.Fprintf(&sb, " %s=%d", counterNames[c], w.Counters[c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
