package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	updateBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgNotFound           = "бронирование не найдено"
	msgNotActive          = "бронирование завершено или отменено"
	msgInvalidDate        = "новое время в прошлом"
	msgInvalidTimeSlot    = "время начала не кратно шагу слотов"
	msgVendorClosed       = "вендор закрыт в выбранную дату"
	msgOutsideShift       = "время вне рабочих смен"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgStaffUnavailable   = "выбранный сотрудник недоступен"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrBookingNotActive):
			h.logger.Warn("PATCH /bookings/{id} - Booking not active: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, updateBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id} - Slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, updateBooking.ErrStaffUnavailable):
			h.logger.Warn("PATCH /bookings/{id} - Staff unavailable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStaffUnavailable)

		case errors.Is(err, updateBooking.ErrVendorClosed):
			h.logger.Warn("PATCH /bookings/{id} - Vendor closed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgVendorClosed)

		case errors.Is(err, updateBooking.ErrOutsideShift):
			h.logger.Warn("PATCH /bookings/{id} - Outside shift: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideShift)

		case errors.Is(err, updateBooking.ErrInvalidDate):
			h.logger.Warn("PATCH /bookings/{id} - New start in the past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, updateBooking.ErrInvalidTimeSlot):
			h.logger.Warn("PATCH /bookings/{id} - Unaligned time slot: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to reschedule booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /bookings/{id} - Booking rescheduled successfully: booking_id=%d, new_start=%s",
		bookingID, response.StartAt)
	handlers.RespondJSON(w, http.StatusOK, response)
}
