package storage

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/eaugusto/registry/tests"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type record struct {
	id      string
	payload string
}

func (r *record) Identifier() string {
	return r.id
}

func (r *record) Copy() *record {
	c := *r
	return &c
}

func mergeRecord(registered, incoming *record) {
	registered.payload = incoming.payload
}

func TestMapStorageTestSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{kind: MapKind})
}

func TestSetStorageTestSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{kind: SetKind})
}

type StoreTestSuite struct {
	suite.Suite
	kind  Kind
	store Store[*record]
}

func (s *StoreTestSuite) SetupTest() {
	store, err := New[*record](s.kind, mergeRecord)
	s.Require().NoError(err)
	s.store = store
}

func (s *StoreTestSuite) TestRegisteredEntityCanBeRetrieved() {
	entity := &record{id: "my_id", payload: "42"}
	registered, err := s.store.Register(entity)
	s.Require().NoError(err)
	s.True(registered)

	retrieved, ok := s.store.Search("my_id")
	s.True(ok, "A registered entity should be retrievable")
	s.Equal(entity, retrieved)
}

func (s *StoreTestSuite) TestRegisterRejectsDuplicateIdentifier() {
	original := &record{id: "my_id", payload: "original"}
	_, err := s.store.Register(original)
	s.Require().NoError(err)

	registered, err := s.store.Register(&record{id: "my_id", payload: "other"})
	s.Require().NoError(err)
	s.False(registered)

	retrieved, ok := s.store.Search("my_id")
	s.Require().True(ok)
	s.Equal(original, retrieved)
	s.Equal("original", retrieved.payload)
	s.Equal(uint(1), s.store.Length())
}

func (s *StoreTestSuite) TestRegisterRejectsSameEntityTwice() {
	entity := &record{id: "my_id"}
	registered, err := s.store.Register(entity)
	s.Require().NoError(err)
	s.True(registered)

	registered, err = s.store.Register(entity)
	s.Require().NoError(err)
	s.False(registered)
	s.Equal(uint(1), s.store.Length())
}

func (s *StoreTestSuite) TestRegisterFailsForUnresolvableKey() {
	s.Run("empty identifier", func() {
		registered, err := s.store.Register(&record{})
		s.ErrorIs(err, ErrEmptyIdentifier)
		s.False(registered)
	})

	s.Run("nil entity", func() {
		var entity *record
		registered, err := s.store.Register(entity)
		s.ErrorIs(err, ErrAccessorFailed)
		s.False(registered)
	})

	s.Equal(uint(0), s.store.Length())
}

func (s *StoreTestSuite) TestDeletedEntitiesAreNotAccessible() {
	_, err := s.store.Register(&record{id: "my_id"})
	s.Require().NoError(err)

	s.store.Delete("my_id")
	retrieved, ok := s.store.Search("my_id")
	s.Nil(retrieved)
	s.False(ok, "A deleted entity should not be accessible")
}

func (s *StoreTestSuite) TestDeleteIsIdempotent() {
	_, err := s.store.Register(&record{id: "my_id"})
	s.Require().NoError(err)
	_, err = s.store.Register(&record{id: "my_id 2"})
	s.Require().NoError(err)

	s.store.Delete("my_id")
	afterFirst := s.store.SearchAll()
	s.store.Delete("my_id")
	s.ElementsMatch(afterFirst, s.store.SearchAll())
	s.Equal(uint(1), s.store.Length())
}

func (s *StoreTestSuite) TestDeleteOfMissingEntityOnEmptyStoreDoesNothing() {
	s.NotPanics(func() {
		s.store.Delete(tests.NonExistingID)
	})
	s.Empty(s.store.SearchAll())
}

func (s *StoreTestSuite) TestUpdateEntityMergesIntoRegisteredEntity() {
	registeredEntity := &record{id: "my_id", payload: "old"}
	_, err := s.store.Register(registeredEntity)
	s.Require().NoError(err)

	updated, err := s.store.UpdateEntity(&record{id: "my_id", payload: "new"})
	s.Require().NoError(err)
	s.True(updated)

	retrieved, ok := s.store.Search("my_id")
	s.Require().True(ok)
	s.Equal("my_id", retrieved.id)
	s.Equal("new", retrieved.payload)
	s.Equal("old", registeredEntity.payload, "the registered entity of the caller is a copy")
}

func (s *StoreTestSuite) TestUpdateEntityOfMissingEntityDoesNothing() {
	updated, err := s.store.UpdateEntity(&record{id: tests.NonExistingID, payload: "new"})
	s.NoError(err)
	s.False(updated)
	s.Equal(uint(0), s.store.Length())
}

func (s *StoreTestSuite) TestUpdateEntityFailsForUnresolvableKey() {
	updated, err := s.store.UpdateEntity(&record{payload: "new"})
	s.False(updated)
	var keyErr *KeyResolutionError
	s.Require().ErrorAs(err, &keyErr)
	s.Equal("*storage.record", keyErr.EntityType)
}

func (s *StoreTestSuite) TestStoredEntitiesAreNotSharedWithCallers() {
	entity := &record{id: "my_id", payload: "registered"}
	_, err := s.store.Register(entity)
	s.Require().NoError(err)
	entity.payload = "changed after registration"

	retrieved, ok := s.store.Search("my_id")
	s.Require().True(ok)
	s.Equal("registered", retrieved.payload)
	s.NotSame(entity, retrieved)

	retrieved.payload = "changed after search"
	all := s.store.SearchAll()
	s.Require().Len(all, 1)
	s.Equal("registered", all[0].payload)

	all[0].payload = "changed after search all"
	again, ok := s.store.Search("my_id")
	s.Require().True(ok)
	s.Equal("registered", again.payload)
}

func (s *StoreTestSuite) TestSearchOfMissingEntityReturnsFalse() {
	retrieved, ok := s.store.Search(tests.NonExistingID)
	s.False(ok)
	s.Nil(retrieved)
}

func (s *StoreTestSuite) TestSearchAll() {
	first := &record{id: "my_id"}
	second := &record{id: "my_id 2"}
	_, err := s.store.Register(first)
	s.Require().NoError(err)
	_, err = s.store.Register(second)
	s.Require().NoError(err)

	retrieved := s.store.SearchAll()
	s.Len(retrieved, 2)
	s.Contains(retrieved, first)
	s.Contains(retrieved, second)
}

func (s *StoreTestSuite) TestLenOfEmptyStoreIsZero() {
	s.Equal(uint(0), s.store.Length())
}

func (s *StoreTestSuite) TestLenChangesOnStoreContentChange() {
	s.Run("len increases when entity is registered", func() {
		_, err := s.store.Register(&record{id: "my_id_1"})
		s.Require().NoError(err)
		s.Equal(uint(1), s.store.Length())
	})

	s.Run("len does not increase when entity with same id is registered", func() {
		_, err := s.store.Register(&record{id: "my_id_1"})
		s.Require().NoError(err)
		s.Equal(uint(1), s.store.Length())
	})

	s.Run("len increases again when different entity is registered", func() {
		_, err := s.store.Register(&record{id: "my_id_2"})
		s.Require().NoError(err)
		s.Equal(uint(2), s.store.Length())
	})

	s.Run("len decreases when entity is deleted", func() {
		s.store.Delete("my_id_1")
		s.Equal(uint(1), s.store.Length())
	})

	s.Run("len is zero after purge", func() {
		s.store.Purge()
		s.Equal(uint(0), s.store.Length())
		s.Empty(s.store.SearchAll())
	})
}

func (s *StoreTestSuite) TestConcurrentRegistrationsKeepIdentifiersUnique() {
	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registered, err := s.store.Register(&record{id: "contended"})
			s.NoError(err)
			results <- registered
		}()
	}
	s.Require().True(tests.FinishesWithin(&wg, tests.DefaultTestTimeout))
	close(results)

	successes := 0
	for registered := range results {
		if registered {
			successes++
		}
	}
	s.Equal(1, successes)
	s.Equal(uint(1), s.store.Length())
}

func (s *StoreTestSuite) TestConcurrentUpdatesAndSearches() {
	_, err := s.store.Register(&record{id: "contended", payload: "0"})
	s.Require().NoError(err)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(payload string) {
			defer wg.Done()
			_, err := s.store.UpdateEntity(&record{id: "contended", payload: payload})
			s.NoError(err)
		}(strconv.Itoa(i))
		go func() {
			defer wg.Done()
			if entity, ok := s.store.Search("contended"); ok {
				// Reading the fields of the returned copy must not race with the merge.
				s.Equal("contended", entity.id)
				s.NotEmpty(entity.payload)
			}
			for _, entity := range s.store.SearchAll() {
				s.NotEmpty(entity.payload)
			}
		}()
	}
	s.Require().True(tests.FinishesWithin(&wg, tests.DefaultTestTimeout))
	s.Equal(uint(1), s.store.Length())
}

func TestMapStorageSearchAllIsInsertionOrdered(t *testing.T) {
	s := NewMapStorage[*record](mergeRecord)
	for _, id := range []string{"c", "a", "b"} {
		_, err := s.Register(&record{id: id})
		require.NoError(t, err)
	}
	s.Delete("a")
	_, err := s.Register(&record{id: "a"})
	require.NoError(t, err)

	var ids []string
	for _, entity := range s.SearchAll() {
		ids = append(ids, entity.id)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Map ")
	require.NoError(t, err)
	assert.Equal(t, MapKind, kind)

	kind, err = ParseKind("set")
	require.NoError(t, err)
	assert.Equal(t, SetKind, kind)

	_, err = ParseKind("tree")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	store, err := New[*record]("tree", mergeRecord)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Nil(t, store)
}

func TestNewMonitoredStorage_Callback(t *testing.T) {
	for _, kind := range []Kind{MapKind, SetKind} {
		t.Run(string(kind), func(t *testing.T) {
			callbackCalls := 0
			callbackAdditions := 0
			callbackUpdates := 0
			callbackDeletions := 0
			store, err := New[*record](kind, mergeRecord, WithMonitoring[*record](tests.DefaultMeasurement,
				func(p *write.Point, r *record, eventType EventType) {
					callbackCalls++
					switch eventType {
					case Creation:
						callbackAdditions++
					case Update:
						callbackUpdates++
					case Deletion:
						callbackDeletions++
					}
				}))
			require.NoError(t, err)

			assertCallbackCounts := func(test func(), totalCalls, additions, updates, deletions int) {
				beforeTotal := callbackCalls
				beforeAdditions := callbackAdditions
				beforeUpdates := callbackUpdates
				beforeDeletions := callbackDeletions
				test()
				assert.Equal(t, beforeTotal+totalCalls, callbackCalls)
				assert.Equal(t, beforeAdditions+additions, callbackAdditions)
				assert.Equal(t, beforeUpdates+updates, callbackUpdates)
				assert.Equal(t, beforeDeletions+deletions, callbackDeletions)
			}

			t.Run("Register", func(t *testing.T) {
				assertCallbackCounts(func() {
					_, err := store.Register(&record{id: "id 1"})
					require.NoError(t, err)
				}, 1, 1, 0, 0)
			})

			t.Run("Register duplicate", func(t *testing.T) {
				assertCallbackCounts(func() {
					_, err := store.Register(&record{id: "id 1"})
					require.NoError(t, err)
				}, 0, 0, 0, 0)
			})

			t.Run("UpdateEntity", func(t *testing.T) {
				assertCallbackCounts(func() {
					updated, err := store.UpdateEntity(&record{id: "id 1", payload: "new"})
					require.NoError(t, err)
					assert.True(t, updated)
				}, 1, 0, 1, 0)
			})

			t.Run("Delete", func(t *testing.T) {
				assertCallbackCounts(func() {
					store.Delete("id 1")
				}, 1, 0, 0, 1)
			})

			t.Run("Delete missing", func(t *testing.T) {
				assertCallbackCounts(func() {
					store.Delete("id 1")
				}, 0, 0, 0, 0)
			})

			t.Run("SearchAll", func(t *testing.T) {
				assertCallbackCounts(func() {
					store.SearchAll()
				}, 0, 0, 0, 0)
			})

			t.Run("Purge", func(t *testing.T) {
				_, err := store.Register(&record{id: "id 1"})
				require.NoError(t, err)
				_, err = store.Register(&record{id: "id 2"})
				require.NoError(t, err)

				assertCallbackCounts(func() {
					store.Purge()
				}, 2, 0, 0, 2)
			})
		})
	}
}

func TestNewMonitoredStorage_Periodically(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mutex sync.Mutex
	callbackCalls := 0
	NewMapStorage[*record](mergeRecord,
		WithMonitoring[*record](tests.DefaultMeasurement, func(p *write.Point, r *record, eventType EventType) {
			mutex.Lock()
			defer mutex.Unlock()
			callbackCalls++
			assert.Equal(t, Periodically, eventType)
			assert.Nil(t, r)
		}),
		WithPeriodicMonitoring[*record](ctx, 200*time.Millisecond))

	calls := func() int {
		mutex.Lock()
		defer mutex.Unlock()
		return callbackCalls
	}
	time.Sleep(tests.ShortTimeout)
	assert.Equal(t, 0, calls())
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, calls())

	cancel()
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, calls())
}
