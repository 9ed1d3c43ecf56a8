package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eaugusto/registry/internal/dialog"
	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/olekukonko/tablewriter"
)

// entity is what the dashboard needs to show a stored entity.
type entity interface {
	storage.Identifiable
	fmt.Stringer
	TableRow() []string
}

// menu performs the dashboard operations for one kind of entity.
// The operations only return an error if the dialog broke down.
type menu interface {
	register(ctx context.Context) error
	search(ctx context.Context) error
	remove(ctx context.Context) error
	modify(ctx context.Context) error
	list(ctx context.Context)
}

type entityMenu[T entity] struct {
	dialog dialog.Dialog
	store  storage.Store[T]
	texts  texts
	// fields are the mapstructure names of the fields in the order they are entered.
	fields []string
	// identifierField is the entry of fields holding the identifier.
	identifierField string
	header          []string
	newEntity       func() T
}

func (m *entityMenu[T]) register(ctx context.Context) error {
	data, err := m.input(titleRegister, m.texts.registerPrompt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(data) == "" {
		m.dialog.Message(titleNoValue, m.texts.noData, dialog.LevelWarning)
		return nil
	}

	e := m.newEntity()
	if err := decodeFields(m.fields, splitFields(data, len(m.fields)), e); err != nil {
		log.WithContext(ctx).WithError(err).Debug("Invalid registration data")
		m.dialog.Message(titleError, m.texts.invalidValue, dialog.LevelError)
		return nil
	}

	ctx = withEntityID(ctx, e.Identifier())
	registered, err := m.store.Register(e)
	switch {
	case err != nil:
		log.WithContext(ctx).WithError(err).Warn("Could not register entity")
		m.dialog.Message(titleError, err.Error(), dialog.LevelError)
	case registered:
		log.WithContext(ctx).Debug("Entity registered")
		m.dialog.Message(m.texts.registeredTitle, m.texts.registered, dialog.LevelInfo)
	default:
		log.WithContext(ctx).Debug("Entity already registered")
		m.dialog.Message(titleError, m.texts.duplicate, dialog.LevelWarning)
	}
	return nil
}

func (m *entityMenu[T]) search(ctx context.Context) error {
	e, ok, err := m.lookup(ctx, titleSearch, m.texts.searchPrompt)
	if err != nil || !ok {
		return err
	}
	m.dialog.Message(m.texts.foundTitle, m.texts.foundPrefix+e.String(), dialog.LevelInfo)
	return nil
}

func (m *entityMenu[T]) remove(ctx context.Context) error {
	e, ok, err := m.lookup(ctx, titleDelete, m.texts.deletePrompt)
	if err != nil || !ok {
		return err
	}
	m.store.Delete(e.Identifier())
	log.WithContext(withEntityID(ctx, e.Identifier())).Debug("Entity deleted")
	m.dialog.Message(titleDeleted, m.texts.deleted, dialog.LevelInfo)
	return nil
}

func (m *entityMenu[T]) modify(ctx context.Context) error {
	registered, ok, err := m.lookup(ctx, titleModify, m.texts.modifyPrompt)
	if err != nil || !ok {
		return err
	}
	identifier := registered.Identifier()
	ctx = withEntityID(ctx, identifier)

	data, err := m.input(m.texts.newDataTitle, m.texts.newDataPrompt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(data) == "" {
		m.dialog.Message(titleNoValue, noValue, dialog.LevelWarning)
		return nil
	}

	names := make([]string, 0, len(m.fields)-1)
	for _, name := range m.fields {
		if name != m.identifierField {
			names = append(names, name)
		}
	}
	values := append(splitFields(data, len(names)), identifier)
	names = append(names, m.identifierField)

	updated := m.newEntity()
	if err := decodeFields(names, values, updated); err != nil {
		log.WithContext(ctx).WithError(err).Debug("Invalid update data")
		m.dialog.Message(titleError, m.texts.invalidValue, dialog.LevelError)
		return nil
	}
	ok, err = m.store.UpdateEntity(updated)
	if err != nil {
		log.WithContext(ctx).WithError(err).Warn("Could not update entity")
		m.dialog.Message(titleError, err.Error(), dialog.LevelError)
		return nil
	} else if !ok {
		// Another dialog of the session deleted the entity while the new data was entered.
		log.WithContext(ctx).Debug("Entity vanished before update")
		m.dialog.Message(m.texts.notFoundTitle, m.texts.notFound, dialog.LevelWarning)
		return nil
	}
	log.WithContext(ctx).Debug("Entity updated")
	m.dialog.Message(m.texts.updatedTitle, m.texts.updated, dialog.LevelInfo)
	return nil
}

func (m *entityMenu[T]) list(ctx context.Context) {
	entities := m.store.SearchAll()
	log.WithContext(ctx).WithField("count", len(entities)).Debug("Listing entities")
	if len(entities) == 0 {
		m.dialog.Message(titleList, m.texts.emptyList, dialog.LevelInfo)
		return
	}

	out := &strings.Builder{}
	table := tablewriter.NewWriter(out)
	table.SetHeader(m.header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range entities {
		table.Append(e.TableRow())
	}
	table.Render()
	m.dialog.Message(titleList, out.String(), dialog.LevelInfo)
}

// lookup asks for an identifier and searches the entity.
// ok is false if the user was already told why there is no entity.
func (m *entityMenu[T]) lookup(ctx context.Context, title, prompt string) (e T, ok bool, err error) {
	identifier, err := m.input(title, prompt)
	if err != nil {
		return e, false, err
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		m.dialog.Message(m.texts.missingIdentifierTitle, m.texts.missingIdentifier, dialog.LevelWarning)
		return e, false, nil
	}

	e, ok = m.store.Search(identifier)
	if !ok {
		log.WithContext(withEntityID(ctx, identifier)).Debug("Entity not found")
		m.dialog.Message(m.texts.notFoundTitle, m.texts.notFound, dialog.LevelWarning)
	}
	return e, ok, nil
}

// input treats a cancelled prompt like an empty answer.
func (m *entityMenu[T]) input(title, prompt string) (string, error) {
	answer, err := m.dialog.Input(title, prompt)
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return answer, nil
}

func withEntityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dto.ContextKey(dto.KeyEntityID), id)
}
