package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidVendorID = "некорректный ID вендора"
	msgInvalidItemID   = "некорректный ID услуги"
	msgMissingDate     = "дата обязательна"
	msgInvalidParams   = "некорректные параметры запроса"
	msgItemNotFound    = "услуга не найдена"
	msgItemMismatch    = "услуга принадлежит другому вендору"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vendors/{vendorId}/items/{itemId}/available-slots
// Query params: date (required, YYYY-MM-DD), timePreference, excludeBookingId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	itemID, err := strconv.ParseInt(vars["itemId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	preferenceStr := r.URL.Query().Get("timePreference")
	excludeBookingIDStr := r.URL.Query().Get("excludeBookingId")

	useCaseReq, err := ToUseCaseRequest(vendorID, itemID, dateStr, preferenceStr, excludeBookingIDStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrItemNotFound):
			h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, getAvailableSlots.ErrItemVendorMismatch):
			h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Item vendor mismatch: vendor_id=%d, item_id=%d",
				vendorID, itemID)
			handlers.RespondBadRequest(w, msgItemMismatch)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /vendors/{id}/items/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /vendors/{id}/items/{id}/available-slots - Failed to get slots: vendor_id=%d, item_id=%d, error=%v",
				vendorID, itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /vendors/{id}/items/{id}/available-slots - Slots retrieved successfully: vendor_id=%d, item_id=%d, slots_count=%d",
		vendorID, itemID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
