package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidCustomerID  = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidParams      = "некорректные параметры запроса"
	msgInvalidStatus      = "некорректный статус бронирования"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgInvalidTransition  = "недопустимый переход статуса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/bookings/{bookingId}
// Query params: customerId или vendorId (проверка прав доступа)
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var customerID, vendorID int64
	if v := r.URL.Query().Get("customerId"); v != "" {
		if customerID, err = strconv.ParseInt(v, 10, 64); err != nil {
			handlers.RespondBadRequest(w, msgInvalidCustomerID)
			return
		}
	}
	if v := r.URL.Query().Get("vendorId"); v != "" {
		if vendorID, err = strconv.ParseInt(v, 10, 64); err != nil {
			handlers.RespondBadRequest(w, msgInvalidVendorID)
			return
		}
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, customerID, vendorID)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d", bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromDomain(booking)

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleCancel PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Cancel(r.Context(), bookingID, req.Reason, req.CancelledBy)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookingsService.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

// HandleUpdateStatus PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status := domain.BookingStatus(req.Status)
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
	default:
		h.logger.Warn("PATCH /bookings/{id}/status - Unknown status: %q", req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	err = h.service.UpdateStatus(r.Context(), bookingID, status, req.Reason, req.ChangedBy)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookingsService.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, status=%s",
				bookingID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated: booking_id=%d, status=%s", bookingID, req.Status)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

// HandleVendorList GET /api/v1/vendors/{vendorId}/bookings
// Query params: roleId, staffId, from, to, status, includeInactive (опционально)
func (h *Handler) HandleVendorList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/bookings - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	query := r.URL.Query()
	filter, err := ToVendorFilter(vendorID,
		query.Get("roleId"), query.Get("staffId"),
		query.Get("from"), query.Get("to"),
		query.Get("status"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	bookings, err := h.service.GetVendorBookings(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /vendors/{id}/bookings - Failed to get bookings: vendor_id=%d, error=%v", vendorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /vendors/{id}/bookings - Bookings retrieved: vendor_id=%d, count=%d", vendorID, len(bookings))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(bookings))
}

// HandleCustomerList GET /api/v1/customers/{customerId}/bookings
func (h *Handler) HandleCustomerList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/bookings - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	bookings, err := h.service.GetCustomerBookings(r.Context(), customerID)
	if err != nil {
		h.logger.Error("GET /customers/{id}/bookings - Failed to get bookings: customer_id=%d, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /customers/{id}/bookings - Bookings retrieved: customer_id=%d, count=%d", customerID, len(bookings))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(bookings))
}
