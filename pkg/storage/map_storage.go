package storage

import (
	"slices"
	"sync"
)

// mapStorage indexes the entities by their identifier.
type mapStorage[T Copyable[T]] struct {
	sync.RWMutex
	monitor[T]
	entities map[string]T
	// order keeps the identifiers in insertion order.
	order []string
	merge MergeFunc[T]
}

// NewMapStorage responds with a Store implementation that looks up entities by their identifier in O(1).
// The data is stored thread-safe in the local application memory.
func NewMapStorage[T Copyable[T]](merge MergeFunc[T], options ...Option[T]) *mapStorage[T] {
	s := &mapStorage[T]{
		monitor:  newMonitor(options),
		entities: make(map[string]T),
		merge:    merge,
	}
	s.startPeriodic(s.Length)
	return s
}

func (s *mapStorage[T]) Register(entity T) (bool, error) {
	key, err := ResolveKey(entity)
	if err != nil {
		s.countOperation(operationRegister, outcomeError)
		return false, err
	}

	s.Lock()
	defer s.Unlock()
	if _, ok := s.entities[key]; ok {
		s.countOperation(operationRegister, outcomeDuplicate)
		return false, nil
	}
	entity = entity.Copy()
	s.entities[key] = entity
	s.order = append(s.order, key)
	s.countOperation(operationRegister, outcomeSuccess)
	s.sendMonitoringData(key, entity, Creation, s.unsafeLength())
	return true, nil
}

func (s *mapStorage[T]) Delete(identifier string) {
	s.Lock()
	defer s.Unlock()
	entity, ok := s.entities[identifier]
	if !ok {
		s.countOperation(operationDelete, outcomeAbsent)
		return
	}
	delete(s.entities, identifier)
	if i := slices.Index(s.order, identifier); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.countOperation(operationDelete, outcomeSuccess)
	s.sendMonitoringData(identifier, entity, Deletion, s.unsafeLength())
}

func (s *mapStorage[T]) UpdateEntity(entity T) (bool, error) {
	key, err := ResolveKey(entity)
	if err != nil {
		s.countOperation(operationUpdate, outcomeError)
		return false, err
	}

	s.Lock()
	defer s.Unlock()
	registered, ok := s.entities[key]
	if !ok {
		s.countOperation(operationUpdate, outcomeAbsent)
		return false, nil
	}
	s.merge(registered, entity)
	s.countOperation(operationUpdate, outcomeSuccess)
	s.sendMonitoringData(key, registered, Update, s.unsafeLength())
	return true, nil
}

func (s *mapStorage[T]) Search(identifier string) (entity T, ok bool) {
	s.RLock()
	defer s.RUnlock()
	registered, ok := s.entities[identifier]
	if !ok {
		s.countOperation(operationSearch, outcomeAbsent)
		return entity, false
	}
	s.countOperation(operationSearch, outcomeSuccess)
	return registered.Copy(), true
}

func (s *mapStorage[T]) SearchAll() []T {
	s.RLock()
	defer s.RUnlock()
	entities := make([]T, 0, len(s.order))
	for _, key := range s.order {
		entities = append(entities, s.entities[key].Copy())
	}
	return entities
}

func (s *mapStorage[T]) Length() uint {
	s.RLock()
	defer s.RUnlock()
	return s.unsafeLength()
}

func (s *mapStorage[T]) unsafeLength() uint {
	return uint(len(s.entities))
}

func (s *mapStorage[T]) Purge() {
	s.Lock()
	defer s.Unlock()
	for _, key := range s.order {
		s.sendMonitoringData(key, s.entities[key], Deletion, 0)
	}
	s.entities = make(map[string]T)
	s.order = nil
}
