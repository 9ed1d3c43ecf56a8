package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/eaugusto/registry/pkg/monitoring"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/gorilla/mux"
)

var (
	ErrAlreadyRegistered = errors.New("entity is already registered")
	ErrNotFound          = errors.New("entity not found")
)

// requestEntity is an entity that can be decoded from a request body.
type requestEntity interface {
	storage.Identifiable
	// Normalize cleans up the decoded fields, e.g. surrounding whitespace of the identifier.
	Normalize()
}

// entityController serves the routes of one store.
type entityController[T requestEntity] struct {
	path  string
	noun  string
	store storage.Store[T]
	// newEntity returns an empty entity to decode a request body into.
	newEntity     func() T
	setIdentifier func(entity T, id string)
}

// ConfigureRoutes configures a given router with the routes of the store.
func (c *entityController[T]) ConfigureRoutes(router *mux.Router) {
	entitiesRouter := router.PathPrefix(c.path).Subrouter()
	entitiesRouter.HandleFunc("", c.register).Methods(http.MethodPost).Name(c.path + "_register")
	entitiesRouter.HandleFunc("", c.list).Methods(http.MethodGet).Name(c.path + "_list")

	entityPath := fmt.Sprintf("/{%s}", EntityIDKey)
	entitiesRouter.HandleFunc(entityPath, c.get).Methods(http.MethodGet).Name(c.path + "_get")
	entitiesRouter.HandleFunc(entityPath, c.update).Methods(http.MethodPut).Name(c.path + "_update")
	entitiesRouter.HandleFunc(entityPath, c.delete).Methods(http.MethodDelete).Name(c.path + "_delete")
}

// register handles the registration of the entity in the request body.
// It responds 201 with the identifier or 409 if the identifier is already taken.
func (c *entityController[T]) register(writer http.ResponseWriter, request *http.Request) {
	entity := c.newEntity()
	if err := parseJSONRequestBody(writer, request, entity); err != nil {
		return
	}
	entity.Normalize()

	var (
		registered bool
		err        error
	)
	logging.StartSpan(request.Context(), "api."+c.noun+".register", "Register "+c.noun, func(_ context.Context) {
		registered, err = c.store.Register(entity)
	})

	switch {
	case err != nil:
		writeClientError(request.Context(), writer, err, http.StatusBadRequest)
	case !registered:
		monitoring.AddEntityID(request, entity.Identifier())
		writeClientError(request.Context(), writer, ErrAlreadyRegistered, http.StatusConflict)
	default:
		monitoring.AddEntityID(request, entity.Identifier())
		sendJSON(request.Context(), writer, &dto.RegisterResponse{ID: entity.Identifier()}, http.StatusCreated)
	}
}

func (c *entityController[T]) list(writer http.ResponseWriter, request *http.Request) {
	var entities []T
	logging.StartSpan(request.Context(), "api."+c.noun+".list", "List "+c.noun, func(_ context.Context) {
		entities = c.store.SearchAll()
	})
	if entities == nil {
		entities = []T{}
	}
	sendJSON(request.Context(), writer, entities, http.StatusOK)
}

func (c *entityController[T]) get(writer http.ResponseWriter, request *http.Request) {
	id := c.entityID(request)

	var (
		entity T
		ok     bool
	)
	logging.StartSpan(request.Context(), "api."+c.noun+".search", "Search "+c.noun, func(_ context.Context) {
		entity, ok = c.store.Search(id)
	})

	if !ok {
		writeClientError(request.Context(), writer, ErrNotFound, http.StatusNotFound)
		return
	}
	sendJSON(request.Context(), writer, entity, http.StatusOK)
}

// update merges the entity of the request body into the stored one.
// The identifier of the path takes precedence over the one of the body.
func (c *entityController[T]) update(writer http.ResponseWriter, request *http.Request) {
	id := c.entityID(request)

	entity := c.newEntity()
	if err := parseJSONRequestBody(writer, request, entity); err != nil {
		return
	}
	c.setIdentifier(entity, id)
	entity.Normalize()

	var (
		updated bool
		err     error
	)
	logging.StartSpan(request.Context(), "api."+c.noun+".update", "Update "+c.noun, func(_ context.Context) {
		updated, err = c.store.UpdateEntity(entity)
	})
	switch {
	case err != nil:
		writeClientError(request.Context(), writer, err, http.StatusBadRequest)
	case !updated:
		writeClientError(request.Context(), writer, ErrNotFound, http.StatusNotFound)
	default:
		writer.WriteHeader(http.StatusNoContent)
	}
}

// delete removes the entity. Deleting an absent entity succeeds as well.
func (c *entityController[T]) delete(writer http.ResponseWriter, request *http.Request) {
	id := c.entityID(request)
	logging.StartSpan(request.Context(), "api."+c.noun+".delete", "Delete "+c.noun, func(_ context.Context) {
		c.store.Delete(id)
	})
	writer.WriteHeader(http.StatusNoContent)
}

func (c *entityController[T]) entityID(request *http.Request) string {
	id := mux.Vars(request)[EntityIDKey]
	monitoring.AddEntityID(request, id)
	log.WithContext(request.Context()).WithField(dto.KeyEntityID, logging.RemoveNewlineSymbol(id)).
		Debugf("Handling %s request", c.noun)
	return id
}
