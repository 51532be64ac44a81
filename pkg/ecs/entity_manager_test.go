package ecs

import "testing"

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity(KindThreat)
	id2 := em.CreateEntity(KindInterceptor)

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}

	if k, ok := em.KindOf(id2); !ok || k != KindInterceptor {
		t.Errorf("Expected KindInterceptor, got %v (ok=%v)", k, ok)
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity(KindThreat)

	// 标记删除
	em.DestroyEntity(id)

	// 标记后立即视为不存活，但仍登记在册
	if em.Alive(id) {
		t.Error("Entity should not be alive after DestroyEntity")
	}
	if _, ok := em.KindOf(id); !ok {
		t.Error("Entity should still be registered before RemoveMarkedEntities")
	}

	em.RemoveMarkedEntities()

	if _, ok := em.KindOf(id); ok {
		t.Error("Entity should be removed after RemoveMarkedEntities")
	}
}

func TestDestroyEntityTwice(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity(KindRaider)

	em.DestroyEntity(id)
	em.DestroyEntity(id)
	em.RemoveMarkedEntities()

	// 已删除实体再次标记不应产生残留
	em.DestroyEntity(id)
	if len(em.entitiesToDestroy) != 0 {
		t.Errorf("Expected no pending destroys for removed entity, got %d", len(em.entitiesToDestroy))
	}
}

func TestInvalidID(t *testing.T) {
	em := NewEntityManager()
	if em.Alive(InvalidID) {
		t.Error("InvalidID should never be alive")
	}
}

func TestReset(t *testing.T) {
	em := NewEntityManager()
	first := em.CreateEntity(KindThreat)
	em.Reset()

	if em.Alive(first) {
		t.Error("Entity should not survive Reset")
	}
	next := em.CreateEntity(KindThreat)
	if next <= first {
		t.Errorf("IDs must not be reused after Reset: first=%d next=%d", first, next)
	}
}
