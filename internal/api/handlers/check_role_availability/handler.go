package check_role_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	checkRole "github.com/m04kA/SMC-SchedulingService/internal/usecase/check_role_availability"
)

const (
	msgInvalidVendorID = "некорректный ID вендора"
	msgInvalidRoleID   = "некорректный ID роли"
	msgMissingInterval = "параметры startAt и endAt обязательны"
	msgInvalidInterval = "некорректный интервал, ожидается RFC3339"
	msgRoleNotFound    = "роль не найдена"
)

type Handler struct {
	useCase CheckRoleAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckRoleAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vendors/{vendorId}/roles/{roleId}/availability
// Query params: startAt, endAt (required, RFC3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	roleID, err := strconv.ParseInt(vars["roleId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Invalid role ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoleID)
		return
	}

	startAtStr := r.URL.Query().Get("startAt")
	endAtStr := r.URL.Query().Get("endAt")
	if startAtStr == "" || endAtStr == "" {
		h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Missing interval")
		handlers.RespondBadRequest(w, msgMissingInterval)
		return
	}

	startAt, err := time.Parse(time.RFC3339, startAtStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}
	endAt, err := time.Parse(time.RFC3339, endAtStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Invalid endAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkRole.Request{
		VendorID: vendorID,
		RoleID:   roleID,
		StartAt:  startAt,
		EndAt:    endAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkRole.ErrRoleNotFound):
			h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Role not found: role_id=%d", roleID)
			handlers.RespondNotFound(w, msgRoleNotFound)

		case errors.Is(err, checkRole.ErrInvalidInput):
			h.logger.Warn("GET /vendors/{id}/roles/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("GET /vendors/{id}/roles/{id}/availability - Failed to check availability: role_id=%d, error=%v",
				roleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /vendors/{id}/roles/{id}/availability - Availability checked: role_id=%d, available=%t",
		roleID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, response)
}
