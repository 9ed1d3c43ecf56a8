package session

import (
	"context"
	"testing"

	"github.com/eaugusto/registry/internal/client"
	"github.com/eaugusto/registry/internal/product"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/eaugusto/registry/tests"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesIndependentStores(t *testing.T) {
	for _, kind := range []storage.Kind{storage.MapKind, storage.SetKind} {
		for _, monitored := range []bool{false, true} {
			t.Run(string(kind), func(t *testing.T) {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()

				s, err := New(ctx, Options{Kind: kind, Monitored: monitored})
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, s.ID)

				registered, err := s.Clients.Register(client.New(tests.DefaultClientName, tests.DefaultCPF, "", "", "", "", ""))
				require.NoError(t, err)
				assert.True(t, registered)
				assert.Equal(t, uint(1), s.Clients.Length())
				assert.Equal(t, uint(0), s.Products.Length())

				registered, err = s.Products.Register(
					product.New(tests.DefaultProductName, tests.DefaultProductCode, "", tests.DefaultProductValue, ""))
				require.NoError(t, err)
				assert.True(t, registered)
				assert.Equal(t, uint(1), s.Products.Length())
			})
		}
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Options{Kind: "tree"})
	assert.ErrorIs(t, err, storage.ErrUnknownKind)
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	first, err := New(context.Background(), Options{Kind: storage.MapKind})
	require.NoError(t, err)
	second, err := New(context.Background(), Options{Kind: storage.MapKind})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
