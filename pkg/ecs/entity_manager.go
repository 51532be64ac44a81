package ecs

// EntityID 是实体的唯一标识符
type EntityID uint64

// InvalidID 0 保留为无效 ID
const InvalidID EntityID = 0

// Kind 实体种类
type Kind int

const (
	KindThreat Kind = iota
	KindInterceptor
	KindAircraft
	KindRaider
)

// EntityManager 分配实体 ID 并登记存活实体
//
// 实体数据本身保存在 game.World 的切片中，这里只负责：
//   - 单调递增的 ID（同一会话内不复用）
//   - 按 ID 查询实体是否存活及其种类
//   - 延迟销毁：DestroyEntity 仅做标记，RemoveMarkedEntities 在帧末统一清理
//
// 锁定目标（导弹制导、近防炮锁定）通过 ID 引用，每帧调用 Alive 解析，
// 目标已被移除时视为丢失目标。
type EntityManager struct {
	nextID uint64
	// 存活实体: EntityID -> Kind
	alive map[EntityID]Kind
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
	marked            map[EntityID]struct{}
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		alive:             make(map[EntityID]Kind),
		entitiesToDestroy: make([]EntityID, 0),
		marked:            make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity(kind Kind) EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.alive[id] = kind
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
// 重复标记同一实体是安全的
func (em *EntityManager) DestroyEntity(id EntityID) {
	if _, ok := em.alive[id]; !ok {
		return
	}
	if _, ok := em.marked[id]; ok {
		return
	}
	em.marked[id] = struct{}{}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// Alive 实体是否存活且未被标记删除
func (em *EntityManager) Alive(id EntityID) bool {
	if _, ok := em.alive[id]; !ok {
		return false
	}
	_, dying := em.marked[id]
	return !dying
}

// KindOf 返回实体种类
func (em *EntityManager) KindOf(id EntityID) (Kind, bool) {
	k, ok := em.alive[id]
	return k, ok
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		delete(em.alive, id)
		delete(em.marked, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// Reset 清空所有实体（重新开始游戏时使用）
// ID 计数器不回退，旧 ID 不会与新实体冲突
func (em *EntityManager) Reset() {
	em.alive = make(map[EntityID]Kind)
	em.marked = make(map[EntityID]struct{})
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}
