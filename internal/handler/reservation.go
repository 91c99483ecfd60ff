package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/queue"
	"github.com/iliyamo/car-wash-backoffice/internal/service"
)

// ReservationHandler exposes the queue endpoints: booking a wash,
// moving reservations through their lifecycle and reading queues.
type ReservationHandler struct {
	Queue *service.QueueService
}

func NewReservationHandler(q *service.QueueService) *ReservationHandler {
	return &ReservationHandler{Queue: q}
}

type createReservationReq struct {
	ServiceID    uint64 `json:"service_id"`
	LocationID   uint64 `json:"location_id"`
	VehiclePlate string `json:"vehicle_plate"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// Create handles POST /v1/reservations.  The reservation joins the
// back of the location's queue with status pending; the assigned
// position is returned in the response.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.VehiclePlate = strings.TrimSpace(req.VehiclePlate)
	if req.ServiceID == 0 || req.LocationID == 0 || req.VehiclePlate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id, location_id and vehicle_plate required"})
	}

	res, err := h.Queue.Create(c.Request().Context(), userID, req.ServiceID, req.LocationID, req.VehiclePlate)
	if err != nil {
		return serviceError(c, err)
	}

	// Best effort: a broker outage must not fail the booking.
	if res.QueuePosition != nil {
		_ = queue.PublishReservationQueued(c.Request().Context(), queue.ReservationQueuedEvent{
			ReservationID:     res.ID,
			ReservationNumber: res.Number,
			ClientID:          res.ClientID,
			ServiceID:         res.ServiceID,
			LocationID:        res.LocationID,
			VehiclePlate:      res.VehiclePlate,
			QueuePosition:     *res.QueuePosition,
			QueuedAt:          res.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusCreated, res)
}

// UpdateStatus handles PATCH /v1/reservations/:id/status (staff).  An
// exit from the active set releases the queue slot and compacts the
// positions behind it.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	res, err := h.Queue.UpdateStatus(c.Request().Context(), id, model.ReservationStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// LocationQueue handles GET /v1/locations/:id/queue: the active
// reservations at one location, front of the queue first.
func (h *ReservationHandler) LocationQueue(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	items, err := h.Queue.Queue(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"location_id": id, "queue": items})
}

// My handles GET /v1/reservations/my: the client's own reservations.
func (h *ReservationHandler) My(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Queue.ListByClient(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// List handles GET /v1/reservations (staff).  An optional location_id
// query parameter restricts the result to one location.
func (h *ReservationHandler) List(c echo.Context) error {
	var locationID uint64
	if raw := c.QueryParam("location_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location_id"})
		}
		locationID = id
	}
	items, err := h.Queue.List(c.Request().Context(), locationID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/reservations/:id.  Clients can only read their
// own reservations; staff can read any.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Queue.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if !isStaff(c) {
		userID, err := getUserID(c)
		if err != nil || res.ClientID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, res)
}
