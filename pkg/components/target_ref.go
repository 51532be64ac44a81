package components

import "github.com/decker502/overdrive/pkg/ecs"

// TargetKind 地面防御目标类型
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetCity
	TargetBase
	TargetTurret
)

// String 返回目标类型名称（日志用）
func (k TargetKind) String() string {
	switch k {
	case TargetCity:
		return "city"
	case TargetBase:
		return "base"
	case TargetTurret:
		return "turret"
	}
	return "none"
}

// TargetRef 来袭导弹瞄准的地面目标
// 只保存类型和 ID，每次使用时按 ID 在 World 中解析；目标可能已在同一帧被摧毁。
type TargetRef struct {
	Kind TargetKind
	ID   string
}

// IsNone 是否未指定目标
func (r TargetRef) IsNone() bool { return r.Kind == TargetNone }

// Target 目标选择结果：目标引用加实际瞄准点
type Target struct {
	Ref  TargetRef
	X, Y float64
}

// LockKind 被锁定的空中目标类型
type LockKind int

const (
	LockNone LockKind = iota
	LockThreat
	LockAircraft
	LockRaider
)

// LockRef 自动武器锁定的空中目标（导弹/飞碟/突袭机）
type LockRef struct {
	Kind LockKind
	ID   ecs.EntityID
}

// IsNone 是否无锁定
func (r LockRef) IsNone() bool { return r.Kind == LockNone || r.ID == ecs.InvalidID }
