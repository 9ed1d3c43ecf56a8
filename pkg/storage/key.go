package storage

import (
	"errors"
	"fmt"
)

// Identifiable is implemented by every entity that can be stored.
type Identifiable interface {
	// Identifier returns the unique identifier of the entity. It must not change after creation.
	Identifier() string
}

// Copyable entities can be copied by the store.
// Stores keep their own copy of every registered entity and hand out copies on search.
type Copyable[T any] interface {
	Identifiable
	// Copy returns a deep copy of the entity.
	Copy() T
}

// Entity is the constraint for entities held by a set-backed store.
// Set membership is decided by reference, duplicates of the identifier are found by comparing identifiers.
type Entity[T any] interface {
	comparable
	Copyable[T]
}

var (
	ErrNilEntity       = errors.New("entity is nil")
	ErrEmptyIdentifier = errors.New("identifier is empty")
	ErrAccessorFailed  = errors.New("identifier accessor failed")
)

// KeyResolutionError is returned when the identifier of an entity cannot be determined.
// Stores cannot operate without an identifier, so the error is never swallowed.
type KeyResolutionError struct {
	EntityType string
	Err        error
}

func (e *KeyResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve identifier of %s: %v", e.EntityType, e.Err)
}

func (e *KeyResolutionError) Unwrap() error {
	return e.Err
}

// ResolveKey returns the identifier of the passed entity.
func ResolveKey[T Identifiable](entity T) (key string, err error) {
	entityType := fmt.Sprintf("%T", entity)
	if any(entity) == nil {
		return "", &KeyResolutionError{EntityType: entityType, Err: ErrNilEntity}
	}

	defer func() {
		// A typed nil pointer ends up here.
		if r := recover(); r != nil {
			key = ""
			err = &KeyResolutionError{EntityType: entityType, Err: fmt.Errorf("%w: %v", ErrAccessorFailed, r)}
		}
	}()

	key = entity.Identifier()
	if key == "" {
		return "", &KeyResolutionError{EntityType: entityType, Err: ErrEmptyIdentifier}
	}
	return key, nil
}
