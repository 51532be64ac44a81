package types

// SoundTrigger 离散音效触发器
// 模拟核心只发出触发器，合成与混音由外部音频模块负责。
type SoundTrigger int

const (
	SoundLaunch          SoundTrigger = iota // 玩家拦截弹发射
	SoundEnemyLaunch                         // 敌方导弹进场
	SoundHit                                 // 击毁敌方目标
	SoundImpact                              // 敌方导弹落地
	SoundCityDestroyed                       // 城市被毁
	SoundAreaPulse                           // 区域脉冲（EMP）
	SoundWaveCleared                         // 波次清空
	SoundGameOver                            // 游戏结束
	SoundIncomingWarning                     // 高威胁目标进场警告
	SoundNearMiss                            // 险些命中城市
	SoundThunder                             // 雷声
	SoundSiloFire                            // 发射井开火
)

var soundTriggerNames = [...]string{
	SoundLaunch:          "launch",
	SoundEnemyLaunch:     "enemy-launch",
	SoundHit:             "hit",
	SoundImpact:          "impact",
	SoundCityDestroyed:   "city-destroyed",
	SoundAreaPulse:       "area-pulse",
	SoundWaveCleared:     "wave-cleared",
	SoundGameOver:        "game-over",
	SoundIncomingWarning: "incoming-warning",
	SoundNearMiss:        "near-miss",
	SoundThunder:         "thunder",
	SoundSiloFire:        "silo-fire",
}

func (s SoundTrigger) String() string {
	if s < 0 || int(s) >= len(soundTriggerNames) {
		return "unknown"
	}
	return soundTriggerNames[s]
}
