package core

import (
	"reflect"
	"sync"
)

// ResourceStore is a container for shared typed resources
// At most one value is held per dynamic type. States and schedulers reach shared data
// (counters, screens, players) through it without coupling to each other
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

// NewResourceStore creates a new empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource registers or replaces the resource of type T
// Pointer types are recommended so holders can mutate in place
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[typeOf[T]()] = resource
}

// GetResource retrieves the resource of type T
// Returns the zero value of T and false if not found
func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	val, ok := rs.resources[typeOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGetResource retrieves a resource or panics if missing
// A missing resource is a wiring bug in the embedding application, not a runtime contingency
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic("core: required resource not found: " + typeOf[T]().String())
	}
	return res
}

// GetOrAddResource returns the resource of type T, creating it with init when absent
func GetOrAddResource[T any](rs *ResourceStore, init func() T) T {
	t := typeOf[T]()

	rs.mu.RLock()
	val, ok := rs.resources[t]
	rs.mu.RUnlock()
	if ok {
		return val.(T)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	// Re-check, another writer may have won
	if val, ok := rs.resources[t]; ok {
		return val.(T)
	}
	res := init()
	rs.resources[t] = res
	return res
}

// RemoveResource deletes the resource of type T, returns whether it existed
func RemoveResource[T any](rs *ResourceStore) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	t := typeOf[T]()
	_, ok := rs.resources[t]
	delete(rs.resources, t)
	return ok
}

// Len returns the number of registered resources
func (rs *ResourceStore) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.resources)
}

// typeOf resolves the static type T, including interface types
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
