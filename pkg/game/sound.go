package game

import (
	"sync"

	"github.com/decker502/overdrive/pkg/types"
)

//go:generate go tool mockgen -destination=./mocks/sound_sink_mock.go -package=mocks . SoundSink

// SoundEvent 发给音频合成器的离散音效事件
type SoundEvent struct {
	Trigger   types.SoundTrigger
	Pan       float64 // 声像 [0, 1]，0 为最左
	Intensity float64 // 强度，未指定时为 1
}

// SoundSink 音频协作方
// 模拟核心只产生事件，不关心如何合成
type SoundSink interface {
	Trigger(ev SoundEvent)
	// SetTurretFireLevel 每帧更新一次近防炮射击强度 [0, 1]
	SetTurretFireLevel(level float64)
}

// SoundQueue 默认的音效接收方，缓存事件供宿主取走
//
// 宿主的音频回调可能在另一个 goroutine 中 Drain，因此加锁。
type SoundQueue struct {
	mu        sync.Mutex
	events    []SoundEvent
	fireLevel float64
	limit     int
	dropped   int
}

// NewSoundQueue 创建音效队列
// limit 为缓存上限，超出后丢弃最早的事件；<= 0 表示默认 256
func NewSoundQueue(limit int) *SoundQueue {
	if limit <= 0 {
		limit = 256
	}
	return &SoundQueue{limit: limit}
}

// Trigger 实现 SoundSink
func (q *SoundQueue) Trigger(ev SoundEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.limit {
		q.events = q.events[1:]
		q.dropped++
	}
	q.events = append(q.events, ev)
}

// SetTurretFireLevel 实现 SoundSink
func (q *SoundQueue) SetTurretFireLevel(level float64) {
	q.mu.Lock()
	q.fireLevel = level
	q.mu.Unlock()
}

// Drain 取走所有缓存事件
func (q *SoundQueue) Drain() []SoundEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// TurretFireLevel 最近一次上报的近防炮射击强度
func (q *SoundQueue) TurretFireLevel() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fireLevel
}

// Dropped 因队列满而丢弃的事件数
func (q *SoundQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
