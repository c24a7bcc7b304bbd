package reassign_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	reassignBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reassign_booking"
)

const (
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgStaffNotFound      = "сотрудник не найден"
	msgBookingNotActive   = "бронирование завершено или отменено"
	msgStaffNotEligible   = "сотрудник не подходит для этого бронирования"
	msgStaffConflict      = "у сотрудника пересекающееся бронирование"
)

type Handler struct {
	useCase ReassignBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReassignBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/vendors/{vendorId}/bookings/{bookingId}/reassign
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ReassignBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reassignBooking.Request{
		BookingID:  bookingID,
		VendorID:   vendorID,
		NewStaffID: req.NewStaffID,
		ChangedBy:  req.ChangedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, reassignBooking.ErrBookingNotFound):
			h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, reassignBooking.ErrStaffNotFound):
			h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Staff not found: staff_id=%d", req.NewStaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, reassignBooking.ErrBookingNotActive):
			h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Booking not active: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingNotActive)

		case errors.Is(err, reassignBooking.ErrStaffNotEligible):
			h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Staff not eligible: booking_id=%d, staff_id=%d",
				bookingID, req.NewStaffID)
			handlers.RespondConflict(w, msgStaffNotEligible)

		case errors.Is(err, reassignBooking.ErrStaffConflict):
			h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Staff conflict: booking_id=%d, staff_id=%d",
				bookingID, req.NewStaffID)
			handlers.RespondConflict(w, msgStaffConflict)

		case errors.Is(err, reassignBooking.ErrInvalidInput):
			h.logger.Warn("POST /vendors/{id}/bookings/{id}/reassign - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /vendors/{id}/bookings/{id}/reassign - Failed to reassign: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /vendors/{id}/bookings/{id}/reassign - Booking reassigned: booking_id=%d, new_staff_id=%d",
		bookingID, req.NewStaffID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
