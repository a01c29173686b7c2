package ecs

import "reflect"

// EntityID 是实体的唯一标识符
// 低 32 位为槽位索引，高 32 位为代数；实体销毁后代数递增，旧句柄随之失效
// 0 保留为无效ID
type EntityID uint64

// NewEntityID 由槽位索引和代数组合实体ID
func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index 槽位索引
func (id EntityID) Index() uint32 { return uint32(id) }

// Generation 代数
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// IsZero 是否为无效ID
func (id EntityID) IsZero() bool { return id == 0 }

// entitySlot 实体槽位
type entitySlot struct {
	generation uint32
	alive      bool
	components map[reflect.Type]interface{}
	parent     EntityID
	children   []EntityID
}

// EntityManager 管理所有实体和组件
// 实体存放在按索引寻址的槽位数组中，父子关系显式记录在槽位内
type EntityManager struct {
	slots    []entitySlot
	freeList []uint32
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		// 槽位 0 永久占用，保证任何有效实体ID都不为 0
		slots:    make([]entitySlot, 1, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	var idx uint32
	if n := len(em.freeList); n > 0 {
		idx = em.freeList[n-1]
		em.freeList = em.freeList[:n-1]
	} else {
		idx = uint32(len(em.slots))
		em.slots = append(em.slots, entitySlot{})
	}

	slot := &em.slots[idx]
	slot.alive = true
	slot.components = make(map[reflect.Type]interface{})
	slot.parent = 0
	slot.children = nil
	return NewEntityID(idx, slot.generation)
}

// slot 返回存活实体的槽位，句柄失效时返回 nil
func (em *EntityManager) slot(id EntityID) *entitySlot {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(em.slots) {
		return nil
	}
	s := &em.slots[idx]
	if !s.alive || s.generation != id.Generation() {
		return nil
	}
	return s
}

// IsAlive 检查实体句柄是否仍然有效
func (em *EntityManager) IsAlive(id EntityID) bool {
	return em.slot(id) != nil
}

// DestroyEntity 立即销毁实体及其全部子实体
// 同时从父实体的子列表中移除自身；对失效句柄调用是安全的空操作
func (em *EntityManager) DestroyEntity(id EntityID) {
	s := em.slot(id)
	if s == nil {
		return
	}

	if parent := em.slot(s.parent); parent != nil {
		parent.children = removeID(parent.children, id)
	}

	em.destroyRecursive(id)
}

func (em *EntityManager) destroyRecursive(id EntityID) {
	s := em.slot(id)
	if s == nil {
		return
	}

	children := s.children
	s.children = nil
	for _, child := range children {
		em.destroyRecursive(child)
	}

	s.alive = false
	s.components = nil
	s.parent = 0
	s.generation++
	em.freeList = append(em.freeList, id.Index())
}

// DestroyAll 销毁所有实体（场景结束时使用）
func (em *EntityManager) DestroyAll() {
	for _, id := range em.Entities() {
		em.DestroyEntity(id)
	}
}

// Entities 返回所有存活实体（按ID升序）
func (em *EntityManager) Entities() []EntityID {
	result := make([]EntityID, 0, len(em.slots))
	for idx := 1; idx < len(em.slots); idx++ {
		s := &em.slots[idx]
		if s.alive {
			result = append(result, NewEntityID(uint32(idx), s.generation))
		}
	}
	return result
}

// Count 返回存活实体数量
func (em *EntityManager) Count() int {
	return len(em.slots) - 1 - len(em.freeList)
}

// SetParent 将 child 挂到 parent 之下
// parent 为 0 表示解除父子关系；任一句柄失效时返回 false
func (em *EntityManager) SetParent(child, parent EntityID) bool {
	c := em.slot(child)
	if c == nil || child == parent {
		return false
	}

	var p *entitySlot
	if !parent.IsZero() {
		if p = em.slot(parent); p == nil {
			return false
		}
	}

	if old := em.slot(c.parent); old != nil {
		old.children = removeID(old.children, child)
	}

	c.parent = parent
	if p != nil {
		p.children = append(p.children, child)
	}
	return true
}

// Parent 返回实体的父实体，无父实体时返回 0
func (em *EntityManager) Parent(id EntityID) (EntityID, bool) {
	s := em.slot(id)
	if s == nil || em.slot(s.parent) == nil {
		return 0, false
	}
	return s.parent, true
}

// Children 返回实体的子实体列表（副本，按挂载顺序）
func (em *EntityManager) Children(id EntityID) []EntityID {
	s := em.slot(id)
	if s == nil {
		return nil
	}
	children := make([]EntityID, len(s.children))
	copy(children, s.children)
	return children
}

// AddComponent 为实体添加组件
// 同类型组件会被覆盖
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	if s := em.slot(id); s != nil {
		s.components[reflect.TypeOf(component)] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if s := em.slot(id); s != nil {
		delete(s.components, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if s := em.slot(id); s != nil {
		comp, found := s.components[componentType]
		return comp, found
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.GetComponent(id, componentType)
	return found
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按槽位索引升序，结果稳定）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for idx := 1; idx < len(em.slots); idx++ {
		s := &em.slots[idx]
		if !s.alive {
			continue
		}
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := s.components[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, NewEntityID(uint32(idx), s.generation))
		}
	}

	return result
}

func removeID(ids []EntityID, id EntityID) []EntityID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
