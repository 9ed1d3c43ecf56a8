package session

import (
	"context"
	"fmt"

	"github.com/eaugusto/registry/internal/client"
	"github.com/eaugusto/registry/internal/product"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/google/uuid"
)

var log = logging.GetLogger("session")

// Options configures the stores of a Session.
type Options struct {
	Kind storage.Kind
	// Monitored stores report their writes and periodically their length to InfluxDB.
	Monitored bool
}

// Session owns the client and the product store.
// It is created once and handed to every consumer that reads or writes entities.
type Session struct {
	ID       uuid.UUID
	Clients  storage.Store[*client.Client]
	Products storage.Store[*product.Product]
}

// New creates both stores with the passed options.
// The periodic monitoring of monitored stores stops when ctx is done.
func New(ctx context.Context, options Options) (*Session, error) {
	s := &Session{ID: uuid.New()}

	var err error
	if options.Monitored {
		s.Clients, err = client.NewMonitoredStore(ctx, options.Kind)
	} else {
		s.Clients, err = client.NewStore(options.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed creating session: %w", err)
	}

	if options.Monitored {
		s.Products, err = product.NewMonitoredStore(ctx, options.Kind)
	} else {
		s.Products, err = product.NewStore(options.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed creating session: %w", err)
	}

	log.WithField("id", s.ID).WithField("kind", options.Kind).Debug("Session created")
	return s, nil
}
