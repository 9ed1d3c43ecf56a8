package storage

import "sync"

// setStorage holds the entities in a set and finds them by scanning it.
// The set only rejects the very same entity, so an entity with an identifier
// that is already present is rejected by an explicit scan.
type setStorage[T Entity[T]] struct {
	sync.RWMutex
	monitor[T]
	entities map[T]struct{}
	merge    MergeFunc[T]
}

// NewSetStorage responds with a Store implementation that scans all entities on every lookup.
// It serves as reference implementation for the map-backed store.
// The data is stored thread-safe in the local application memory.
func NewSetStorage[T Entity[T]](merge MergeFunc[T], options ...Option[T]) *setStorage[T] {
	s := &setStorage[T]{
		monitor:  newMonitor(options),
		entities: make(map[T]struct{}),
		merge:    merge,
	}
	s.startPeriodic(s.Length)
	return s
}

func (s *setStorage[T]) Register(entity T) (bool, error) {
	key, err := ResolveKey(entity)
	if err != nil {
		s.countOperation(operationRegister, outcomeError)
		return false, err
	}

	s.Lock()
	defer s.Unlock()
	// The set holds copies, so the caller's entity is never a member itself.
	if _, ok := s.unsafeFind(key); ok {
		s.countOperation(operationRegister, outcomeDuplicate)
		return false, nil
	}
	entity = entity.Copy()
	s.entities[entity] = struct{}{}
	s.countOperation(operationRegister, outcomeSuccess)
	s.sendMonitoringData(key, entity, Creation, s.unsafeLength())
	return true, nil
}

func (s *setStorage[T]) Delete(identifier string) {
	s.Lock()
	defer s.Unlock()
	entity, ok := s.unsafeFind(identifier)
	if !ok {
		s.countOperation(operationDelete, outcomeAbsent)
		return
	}
	delete(s.entities, entity)
	s.countOperation(operationDelete, outcomeSuccess)
	s.sendMonitoringData(identifier, entity, Deletion, s.unsafeLength())
}

func (s *setStorage[T]) UpdateEntity(entity T) (bool, error) {
	key, err := ResolveKey(entity)
	if err != nil {
		s.countOperation(operationUpdate, outcomeError)
		return false, err
	}

	s.Lock()
	defer s.Unlock()
	registered, ok := s.unsafeFind(key)
	if !ok {
		s.countOperation(operationUpdate, outcomeAbsent)
		return false, nil
	}
	s.merge(registered, entity)
	s.countOperation(operationUpdate, outcomeSuccess)
	s.sendMonitoringData(key, registered, Update, s.unsafeLength())
	return true, nil
}

func (s *setStorage[T]) Search(identifier string) (entity T, ok bool) {
	s.RLock()
	defer s.RUnlock()
	registered, ok := s.unsafeFind(identifier)
	if !ok {
		s.countOperation(operationSearch, outcomeAbsent)
		return entity, false
	}
	s.countOperation(operationSearch, outcomeSuccess)
	return registered.Copy(), true
}

func (s *setStorage[T]) SearchAll() []T {
	s.RLock()
	defer s.RUnlock()
	entities := make([]T, 0, len(s.entities))
	for entity := range s.entities {
		entities = append(entities, entity.Copy())
	}
	return entities
}

func (s *setStorage[T]) Length() uint {
	s.RLock()
	defer s.RUnlock()
	return s.unsafeLength()
}

func (s *setStorage[T]) unsafeLength() uint {
	return uint(len(s.entities))
}

func (s *setStorage[T]) Purge() {
	s.Lock()
	defer s.Unlock()
	for entity := range s.entities {
		s.sendMonitoringData(entity.Identifier(), entity, Deletion, 0)
	}
	s.entities = make(map[T]struct{})
}

// unsafeFind returns the first entity with the passed identifier. The caller must hold the lock.
func (s *setStorage[T]) unsafeFind(identifier string) (entity T, ok bool) {
	for candidate := range s.entities {
		if candidate.Identifier() == identifier {
			return candidate, true
		}
	}
	return entity, false
}
