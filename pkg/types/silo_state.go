package types

// SiloState 地下发射井状态
//
// 状态按固定顺序循环：
//
//	Hidden → Opening → Rising → Active → Lowering → Closing → Cooldown → Hidden
//
// SiloDestroyed 不在循环内，只能由波次开始时的修复逻辑离开。
type SiloState int

const (
	SiloHidden   SiloState = iota // 隐藏在地下
	SiloOpening                   // 舱门打开中
	SiloRising                    // 发射架升起中
	SiloActive                    // 齐射中
	SiloLowering                  // 发射架下降中
	SiloClosing                   // 舱门关闭中
	SiloCooldown                  // 冷却（结束时补满弹药）
	SiloDestroyed                 // 已被摧毁
)

func (s SiloState) String() string {
	switch s {
	case SiloHidden:
		return "hidden"
	case SiloOpening:
		return "opening"
	case SiloRising:
		return "rising"
	case SiloActive:
		return "active"
	case SiloLowering:
		return "lowering"
	case SiloClosing:
		return "closing"
	case SiloCooldown:
		return "cooldown"
	case SiloDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Deployed 发射架是否处于展开过程或展开状态（可被收回）
func (s SiloState) Deployed() bool {
	return s == SiloOpening || s == SiloRising || s == SiloActive
}

// SiloCommand 发射井外部指令，由状态机消费后清除
type SiloCommand int

const (
	SiloCommandIdle SiloCommand = iota
	SiloCommandDeploy
	SiloCommandRetract
)
