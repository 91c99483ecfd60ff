package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/utils"
)

// ReservationStore is the storage surface the queue service needs.  It
// is satisfied by repository.ReservationRepo.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, res *model.Reservation) error
	Get(ctx context.Context, id uint64) (*model.Reservation, error)
	GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatusAndPosition(ctx context.Context, id uint64, status model.ReservationStatus, position *int) error
	ShiftPositionsAfter(ctx context.Context, locationID uint64, position int) error
	Queue(ctx context.Context, locationID uint64) ([]model.Reservation, error)
	ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error)
	List(ctx context.Context, locationID uint64) ([]model.Reservation, error)
}

// Catalog resolves catalog entries for validation and price lookups.
// It is satisfied by repository.CatalogRepo.
type Catalog interface {
	Resolve(ctx context.Context, id uint64) (model.CatalogEntry, error)
}

/// QueueService owns the reservation lifecycle: joining a location's
// queue, moving through the status machine and keeping queue positions
// contiguous when a reservation leaves.
type QueueService struct {
	reservations ReservationStore
	catalog      Catalog
}

// NewQueueService returns a QueueService backed by the given stores.
func NewQueueService(reservations ReservationStore, catalog Catalog) *QueueService {
	return &QueueService{reservations: reservations, catalog: catalog}
}

// Create books a reservation for a client.  The referenced catalog
// entry must be an active service; products cannot be queued.  The
// reservation enters the back of the location's queue with status
// pending.
func (s *QueueService) Create(ctx context.Context, clientID, serviceID, locationID uint64, vehiclePlate string) (*model.Reservation, error) {
	entry, err := s.catalog.Resolve(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidService
		}
		return nil, err
	}
	if entry.Kind != model.KindService {
		return nil, ErrInvalidService
	}
	number, err := utils.NewDocumentNumber("RES")
	if err != nil {
		return nil, err
	}
	res := &model.Reservation{
		Number:       number,
		ClientID:     clientID,
		ServiceID:    serviceID,
		LocationID:   locationID,
		VehiclePlate: vehiclePlate,
		Status:       model.ReservationPending,
	}
	err = s.reservations.WithTx(ctx, func(ctx context.Context) error {
		return s.reservations.Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateStatus applies one step of the reservation status machine.
// When the step takes the reservation out of the active set, its queue
// slot is released and every active reservation behind it at the same
// location moves one position forward, all within a single
// transaction so the queue is never observed with a gap.
func (s *QueueService) UpdateStatus(ctx context.Context, id uint64, next model.ReservationStatus) (*model.Reservation, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}
	var res *model.Reservation
	err := s.reservations.WithTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.reservations.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if !res.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		leaving := res.Status.Active() && !next.Active()
		if leaving {
			vacated := res.QueuePosition
			if err := s.reservations.UpdateStatusAndPosition(ctx, id, next, nil); err != nil {
				return err
			}
			res.QueuePosition = nil
			if vacated != nil {
				if err := s.reservations.ShiftPositionsAfter(ctx, res.LocationID, *vacated); err != nil {
					return err
				}
			}
		} else {
			if err := s.reservations.UpdateStatusAndPosition(ctx, id, next, res.QueuePosition); err != nil {
				return err
			}
		}
		res.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Queue returns the active reservations at a location ordered by queue
// position, front of the queue first.
func (s *QueueService) Queue(ctx context.Context, locationID uint64) ([]model.Reservation, error) {
	return s.reservations.Queue(ctx, locationID)
}

// Get returns one reservation.
func (s *QueueService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListByClient returns a client's own reservations, newest first.
func (s *QueueService) ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByClient(ctx, clientID)
}

// List returns reservations for staff, newest first.  locationID 0
// means all locations.
func (s *QueueService) List(ctx context.Context, locationID uint64) ([]model.Reservation, error) {
	return s.reservations.List(ctx, locationID)
}
