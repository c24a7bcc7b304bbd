package get_staff_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getStaffSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_staff_slots"
)

const (
	msgInvalidVendorID = "некорректный ID вендора"
	msgInvalidStaffID  = "некорректный ID сотрудника"
	msgMissingDate     = "дата обязательна"
	msgInvalidParams   = "некорректные параметры запроса"
	msgStaffNotFound   = "сотрудник не найден"
)

type Handler struct {
	useCase GetStaffSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetStaffSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vendors/{vendorId}/staff/{staffId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationMinutes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/staff/{id}/available-slots - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/staff/{id}/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /vendors/{id}/staff/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	durationStr := r.URL.Query().Get("durationMinutes")

	useCaseReq, err := ToUseCaseRequest(vendorID, staffID, dateStr, durationStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/staff/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getStaffSlots.ErrStaffNotFound):
			h.logger.Warn("GET /vendors/{id}/staff/{id}/available-slots - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getStaffSlots.ErrInvalidInput):
			h.logger.Warn("GET /vendors/{id}/staff/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /vendors/{id}/staff/{id}/available-slots - Failed to get slots: vendor_id=%d, staff_id=%d, error=%v",
				vendorID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /vendors/{id}/staff/{id}/available-slots - Slots retrieved successfully: vendor_id=%d, staff_id=%d, slots_count=%d",
		vendorID, staffID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
