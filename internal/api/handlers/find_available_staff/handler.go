package find_available_staff

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	findStaff "github.com/m04kA/SMC-SchedulingService/internal/usecase/find_available_staff"
)

const (
	msgInvalidVendorID = "некорректный ID вендора"
	msgInvalidItemID   = "некорректный ID услуги"
	msgMissingStartAt  = "время начала обязательно"
	msgInvalidStartAt  = "некорректный формат времени начала, ожидается RFC3339"
	msgItemNotFound    = "услуга не найдена"
	msgItemMismatch    = "услуга принадлежит другому вендору"
)

type Handler struct {
	useCase FindAvailableStaffUseCase
	logger  Logger
}

func NewHandler(useCase FindAvailableStaffUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vendors/{vendorId}/items/{itemId}/available-staff
// Query params: startAt (required, RFC3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	itemID, err := strconv.ParseInt(vars["itemId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	startAtStr := r.URL.Query().Get("startAt")
	if startAtStr == "" {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Missing startAt")
		handlers.RespondBadRequest(w, msgMissingStartAt)
		return
	}

	startAt, err := time.Parse(time.RFC3339, startAtStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &findStaff.Request{
		VendorID:      vendorID,
		BookingItemID: itemID,
		StartAt:       startAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, findStaff.ErrItemNotFound):
			h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, findStaff.ErrItemVendorMismatch):
			h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Item vendor mismatch: vendor_id=%d, item_id=%d",
				vendorID, itemID)
			handlers.RespondBadRequest(w, msgItemMismatch)

		case errors.Is(err, findStaff.ErrInvalidInput):
			h.logger.Warn("GET /vendors/{id}/items/{id}/available-staff - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStartAt)

		default:
			h.logger.Error("GET /vendors/{id}/items/{id}/available-staff - Failed to find staff: vendor_id=%d, item_id=%d, error=%v",
				vendorID, itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /vendors/{id}/items/{id}/available-staff - Candidates retrieved: vendor_id=%d, item_id=%d, count=%d",
		vendorID, itemID, len(result.Candidates))
	handlers.RespondJSON(w, http.StatusOK, response)
}
