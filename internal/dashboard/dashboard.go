package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eaugusto/registry/internal/client"
	"github.com/eaugusto/registry/internal/dialog"
	"github.com/eaugusto/registry/internal/product"
	"github.com/eaugusto/registry/internal/session"
	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/scylladb/go-set/strset"
)

const (
	optionRegister = "1"
	optionSearch   = "2"
	optionDelete   = "3"
	optionModify   = "4"
	optionExit     = "5"
	optionList     = "6"
)

var (
	log          = logging.GetLogger("dashboard")
	validOptions = strset.New(optionRegister, optionSearch, optionDelete, optionModify, optionExit, optionList)
)

// Dashboard lets a user manage the clients or the products of a session through a Dialog.
type Dashboard struct {
	dialog  dialog.Dialog
	session *session.Session
}

func New(d dialog.Dialog, s *session.Session) *Dashboard {
	return &Dashboard{dialog: d, session: s}
}

// Run asks for the kind of entity and then shows the menu until the user leaves.
// It returns nil when the user exits and an error if the dialog broke down or ctx is done.
func (d *Dashboard) Run(ctx context.Context) error {
	ctx = context.WithValue(ctx, dto.ContextKey(dto.KeySessionID), d.session.ID.String())
	log.WithContext(ctx).Debug("Dashboard started")

	choice, err := d.dialog.Choose(titleEntitySelection, entitySelectionPrompt, entityOptions)
	if errors.Is(err, dialog.ErrCancelled) {
		d.exit(ctx)
		return nil
	} else if err != nil {
		return fmt.Errorf("error choosing entity: %w", err)
	}
	m := d.menuFor(choice)

	for ctx.Err() == nil {
		option, err := d.nextOption()
		if errors.Is(err, dialog.ErrCancelled) || option == optionExit {
			d.exit(ctx)
			return nil
		} else if err != nil {
			return fmt.Errorf("error reading menu option: %w", err)
		}

		log.WithContext(ctx).WithField("option", option).Debug("Handling menu option")
		if err := handle(ctx, m, option); err != nil {
			return err
		}
	}
	return fmt.Errorf("dashboard stopped: %w", ctx.Err())
}

// nextOption asks for a menu option until a valid one is entered.
func (d *Dashboard) nextOption() (string, error) {
	option, err := d.dialog.Input(titleMenu, menuPrompt)
	for err == nil && !validOptions.Has(strings.TrimSpace(option)) {
		option, err = d.dialog.Input(titleInvalidOption, invalidOptionPrompt)
	}
	return strings.TrimSpace(option), err
}

func (d *Dashboard) exit(ctx context.Context) {
	log.WithContext(ctx).Debug("Dashboard exited")
	d.dialog.Message(titleExit, exitMessage, dialog.LevelInfo)
}

func (d *Dashboard) menuFor(choice int) menu {
	if choice == 0 {
		return &entityMenu[*client.Client]{
			dialog:          d.dialog,
			store:           d.session.Clients,
			texts:           clientTexts,
			fields:          []string{"name", "cpf", "phoneNumber", "address", "addressNumber", "city", "state"},
			identifierField: "cpf",
			header:          client.TableHeader,
			newEntity:       func() *client.Client { return &client.Client{} },
		}
	}
	return &entityMenu[*product.Product]{
		dialog:          d.dialog,
		store:           d.session.Products,
		texts:           productTexts,
		fields:          []string{"name", "code", "description", "value", "brand"},
		identifierField: "code",
		header:          product.TableHeader,
		newEntity:       func() *product.Product { return &product.Product{} },
	}
}

func handle(ctx context.Context, m menu, option string) error {
	switch option {
	case optionRegister:
		return m.register(ctx)
	case optionSearch:
		return m.search(ctx)
	case optionDelete:
		return m.remove(ctx)
	case optionModify:
		return m.modify(ctx)
	case optionList:
		m.list(ctx)
	}
	return nil
}
