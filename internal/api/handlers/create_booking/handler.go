package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgItemNotFound       = "услуга не найдена"
	msgItemVendorMismatch = "услуга принадлежит другому вендору"
	msgInvalidDate        = "время начала в прошлом"
	msgInvalidTimeSlot    = "время начала не кратно шагу слотов"
	msgVendorClosed       = "вендор закрыт в выбранную дату"
	msgOutsideShift       = "время вне рабочих смен"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgStaffUnavailable   = "выбранный сотрудник недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: customer_id=%d, vendor_id=%d", req.CustomerID, req.VendorID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrStaffUnavailable):
			h.logger.Warn("POST /bookings - Staff unavailable: customer_id=%d, vendor_id=%d", req.CustomerID, req.VendorID)
			handlers.RespondConflict(w, msgStaffUnavailable)

		case errors.Is(err, createBooking.ErrItemNotFound):
			h.logger.Warn("POST /bookings - Item not found: item_id=%d", req.BookingItemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, createBooking.ErrItemVendorMismatch):
			h.logger.Warn("POST /bookings - Item vendor mismatch: item_id=%d, vendor_id=%d", req.BookingItemID, req.VendorID)
			handlers.RespondBadRequest(w, msgItemVendorMismatch)

		case errors.Is(err, createBooking.ErrVendorClosed):
			h.logger.Warn("POST /bookings - Vendor closed: customer_id=%d, vendor_id=%d", req.CustomerID, req.VendorID)
			handlers.RespondBadRequest(w, msgVendorClosed)

		case errors.Is(err, createBooking.ErrOutsideShift):
			h.logger.Warn("POST /bookings - Outside shift: customer_id=%d, vendor_id=%d", req.CustomerID, req.VendorID)
			handlers.RespondBadRequest(w, msgOutsideShift)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Start in the past: customer_id=%d, vendor_id=%d", req.CustomerID, req.VendorID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Unaligned time slot: customer_id=%d, vendor_id=%d", req.CustomerID, req.VendorID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, vendor_id=%d, error=%v",
				req.CustomerID, req.VendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, vendor_id=%d",
		result.ID, req.CustomerID, req.VendorID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
