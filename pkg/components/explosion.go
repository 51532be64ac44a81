package components

// Explosion 爆炸
// 半径是已存在时间的纯函数，见 systems.ExplosionRadius
type Explosion struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Life      float64 // 剩余寿命
	MaxLife   float64
	ShakeTime float64 // 膨胀阶段占寿命的比例

	Player  bool // 玩家方造成，参与碰撞判定
	Pulse   bool // 脉冲武器
	Heavy   bool
	Flash   float64
	NoShake bool
}

// FloatingText 浮动提示文字（连击提示等）
type FloatingText struct {
	Text    string
	X, Y    float64
	Life    float64
	MaxLife float64
}
