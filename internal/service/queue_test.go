package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	entries map[uint64]model.CatalogEntry
}

func (f *fakeCatalog) Resolve(_ context.Context, id uint64) (model.CatalogEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return model.CatalogEntry{}, sql.ErrNoRows
	}
	return e, nil
}

// fakeReservationStore is an in-memory ReservationStore that mirrors
// the SQL repository's semantics: positions are assigned max+1 among
// the location's active reservations, and the shift decrements every
// active position behind the vacated slot.
type fakeReservationStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{rows: map[uint64]*model.Reservation{}}
}

func (f *fakeReservationStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxPos := 0
	for _, r := range f.rows {
		if r.LocationID == res.LocationID && r.Status.Active() && r.QueuePosition != nil && *r.QueuePosition > maxPos {
			maxPos = *r.QueuePosition
		}
	}
	f.nextID++
	res.ID = f.nextID
	pos := maxPos + 1
	res.QueuePosition = &pos
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) Get(_ context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationStore) GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	return f.Get(ctx, id)
}

func (f *fakeReservationStore) UpdateStatusAndPosition(_ context.Context, id uint64, status model.ReservationStatus, position *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	if position == nil {
		r.QueuePosition = nil
	} else {
		p := *position
		r.QueuePosition = &p
	}
	return nil
}

func (f *fakeReservationStore) ShiftPositionsAfter(_ context.Context, locationID uint64, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.LocationID == locationID && r.Status.Active() && r.QueuePosition != nil && *r.QueuePosition > position {
			*r.QueuePosition--
		}
	}
	return nil
}

func (f *fakeReservationStore) Queue(_ context.Context, locationID uint64) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if r.LocationID == locationID && r.Status.Active() {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].QueuePosition < *out[j].QueuePosition })
	return out, nil
}

func (f *fakeReservationStore) ListByClient(_ context.Context, clientID uint64) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if r.ClientID == clientID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) List(_ context.Context, locationID uint64) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if locationID == 0 || r.LocationID == locationID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func washCatalog() *fakeCatalog {
	return &fakeCatalog{entries: map[uint64]model.CatalogEntry{
		1: {ID: 1, Price: 25, Kind: model.KindService},
		2: {ID: 2, Price: 9.5, Kind: model.KindProduct},
	}}
}

func TestQueueServiceCreateAssignsSequentialPositions(t *testing.T) {
	store := newFakeReservationStore()
	svc := NewQueueService(store, washCatalog())
	ctx := context.Background()

	for i, want := range []int{1, 2, 3} {
		res, err := svc.Create(ctx, uint64(100+i), 1, 7, "AB-123")
		require.NoError(t, err)
		require.NotNil(t, res.QueuePosition)
		assert.Equal(t, want, *res.QueuePosition)
		assert.Equal(t, model.ReservationPending, res.Status)
		assert.True(t, strings.HasPrefix(res.Number, "RES-"))
	}

	// Another location starts its own queue at 1.
	res, err := svc.Create(ctx, 200, 1, 8, "CD-456")
	require.NoError(t, err)
	assert.Equal(t, 1, *res.QueuePosition)
}

func TestQueueServiceCreateRejectsNonServices(t *testing.T) {
	svc := NewQueueService(newFakeReservationStore(), washCatalog())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 2, 7, "AB-123") // a product
	assert.ErrorIs(t, err, ErrInvalidService)

	_, err = svc.Create(ctx, 1, 99, 7, "AB-123") // unknown entry
	assert.ErrorIs(t, err, ErrInvalidService)
}

func TestQueueServiceCancellationCompactsQueue(t *testing.T) {
	store := newFakeReservationStore()
	svc := NewQueueService(store, washCatalog())
	ctx := context.Background()

	a, err := svc.Create(ctx, 1, 1, 7, "AAA-111")
	require.NoError(t, err)
	b, err := svc.Create(ctx, 2, 1, 7, "BBB-222")
	require.NoError(t, err)
	c, err := svc.Create(ctx, 3, 1, 7, "CCC-333")
	require.NoError(t, err)

	// The middle reservation is cancelled; the one behind it moves up.
	updated, err := svc.UpdateStatus(ctx, b.ID, model.ReservationCancelled)
	require.NoError(t, err)
	assert.Nil(t, updated.QueuePosition)

	queue, err := svc.Queue(ctx, 7)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, a.ID, queue[0].ID)
	assert.Equal(t, 1, *queue[0].QueuePosition)
	assert.Equal(t, c.ID, queue[1].ID)
	assert.Equal(t, 2, *queue[1].QueuePosition)

	// A newcomer takes the slot after the compacted tail, not after
	// the historical maximum.
	d, err := svc.Create(ctx, 4, 1, 7, "DDD-444")
	require.NoError(t, err)
	assert.Equal(t, 3, *d.QueuePosition)
}

func TestQueueServiceCompletionReleasesFrontSlot(t *testing.T) {
	store := newFakeReservationStore()
	svc := NewQueueService(store, washCatalog())
	ctx := context.Background()

	a, err := svc.Create(ctx, 1, 1, 7, "AAA-111")
	require.NoError(t, err)
	b, err := svc.Create(ctx, 2, 1, 7, "BBB-222")
	require.NoError(t, err)

	for _, next := range []model.ReservationStatus{
		model.ReservationAccepted, model.ReservationInProgress,
	} {
		res, err := svc.UpdateStatus(ctx, a.ID, next)
		require.NoError(t, err)
		// Transitions within the active set keep the slot.
		require.NotNil(t, res.QueuePosition)
		assert.Equal(t, 1, *res.QueuePosition)
	}

	res, err := svc.UpdateStatus(ctx, a.ID, model.ReservationCompleted)
	require.NoError(t, err)
	assert.Nil(t, res.QueuePosition)

	queue, err := svc.Queue(ctx, 7)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, b.ID, queue[0].ID)
	assert.Equal(t, 1, *queue[0].QueuePosition)
}

func TestQueueServiceTransitionRules(t *testing.T) {
	tests := []struct {
		name    string
		from    model.ReservationStatus
		to      model.ReservationStatus
		allowed bool
	}{
		{"pending to accepted", model.ReservationPending, model.ReservationAccepted, true},
		{"pending to cancelled", model.ReservationPending, model.ReservationCancelled, true},
		{"pending skips to in_progress", model.ReservationPending, model.ReservationInProgress, false},
		{"pending skips to completed", model.ReservationPending, model.ReservationCompleted, false},
		{"accepted to in_progress", model.ReservationAccepted, model.ReservationInProgress, true},
		{"in_progress to completed", model.ReservationInProgress, model.ReservationCompleted, true},
		{"completed is terminal", model.ReservationCompleted, model.ReservationPending, false},
		{"cancelled is terminal", model.ReservationCancelled, model.ReservationAccepted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeReservationStore()
			svc := NewQueueService(store, washCatalog())
			ctx := context.Background()

			res, err := svc.Create(ctx, 1, 1, 7, "AB-123")
			require.NoError(t, err)
			store.rows[res.ID].Status = tt.from
			if !tt.from.Active() {
				store.rows[res.ID].QueuePosition = nil
			}

			_, err = svc.UpdateStatus(ctx, res.ID, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestQueueServiceUpdateStatusErrors(t *testing.T) {
	svc := NewQueueService(newFakeReservationStore(), washCatalog())
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, model.ReservationStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, 42, model.ReservationAccepted)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
