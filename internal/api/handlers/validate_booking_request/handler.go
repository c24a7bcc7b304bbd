package validate_booking_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	validateBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_booking_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgItemNotFound       = "услуга не найдена"
	msgItemMismatch       = "услуга принадлежит другому вендору"
)

type Handler struct {
	useCase ValidateBookingUseCase
	logger  Logger
}

func NewHandler(useCase ValidateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, validateBooking.ErrItemNotFound):
			h.logger.Warn("POST /bookings/validate - Item not found: item_id=%d", req.BookingItemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, validateBooking.ErrItemVendorMismatch):
			h.logger.Warn("POST /bookings/validate - Item vendor mismatch: vendor_id=%d, item_id=%d",
				req.VendorID, req.BookingItemID)
			handlers.RespondBadRequest(w, msgItemMismatch)

		case errors.Is(err, validateBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/validate - Failed to validate request: vendor_id=%d, item_id=%d, error=%v",
				req.VendorID, req.BookingItemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings/validate - Request validated: vendor_id=%d, item_id=%d, available=%t",
		req.VendorID, req.BookingItemID, result.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, response)
}
