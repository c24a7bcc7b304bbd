package role_shifts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	shiftsService "github.com/m04kA/SMC-SchedulingService/internal/service/shifts"
)

const (
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidRoleID      = "некорректный ID роли"
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgRoleNotFound       = "роль не найдена"
	msgShiftNotFound      = "шаблон смены не найден"
	msgForbidden          = "доступ запрещен"
	msgItemNotServed      = "услуга не входит в список роли"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/vendors/{vendorId}/roles/{roleId}/shifts
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, roleID, ok := h.vendorAndRole(w, r)
	if !ok {
		return
	}

	var req ShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shift, err := req.ToDomain(vendorID, roleID, 0)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/shifts - Invalid time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	created, err := h.service.Create(r.Context(), vendorID, shift)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/roles/{id}/shifts", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/roles/{id}/shifts - Shift created: shift_id=%d, role_id=%d", created.ID, roleID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// HandleBulkCreate POST /api/v1/vendors/{vendorId}/roles/{roleId}/shifts/bulk
// Набор создается атомарно: либо все смены, либо ни одной
func (h *Handler) HandleBulkCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, roleID, ok := h.vendorAndRole(w, r)
	if !ok {
		return
	}

	var req BulkShiftsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/shifts/bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shifts := make([]*domain.RoleShift, 0, len(req.Shifts))
	for _, shiftReq := range req.Shifts {
		shift, err := shiftReq.ToDomain(vendorID, roleID, 0)
		if err != nil {
			h.logger.Warn("POST /vendors/{id}/roles/{id}/shifts/bulk - Invalid time format: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		shifts = append(shifts, shift)
	}

	created, err := h.service.BulkCreate(r.Context(), vendorID, shifts)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/roles/{id}/shifts/bulk", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/roles/{id}/shifts/bulk - Shifts created: role_id=%d, count=%d", roleID, len(created))
	handlers.RespondJSON(w, http.StatusCreated, &ShiftsListResponse{Shifts: FromDomainList(created)})
}

// HandleList GET /api/v1/vendors/{vendorId}/roles/{roleId}/shifts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vendorID, roleID, ok := h.vendorAndRole(w, r)
	if !ok {
		return
	}

	shifts, err := h.service.GetByRole(r.Context(), vendorID, roleID)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/roles/{id}/shifts", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &ShiftsListResponse{Shifts: FromDomainList(shifts)})
}

// HandleUpdate PUT /api/v1/vendors/{vendorId}/roles/{roleId}/shifts/{shiftId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vendorID, roleID, ok := h.vendorAndRole(w, r)
	if !ok {
		return
	}
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	var req ShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/roles/{id}/shifts/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shift, err := req.ToDomain(vendorID, roleID, shiftID)
	if err != nil {
		h.logger.Warn("PUT /vendors/{id}/roles/{id}/shifts/{id} - Invalid time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	updated, err := h.service.Update(r.Context(), vendorID, shift)
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/roles/{id}/shifts/{id}", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/roles/{id}/shifts/{id} - Shift updated: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(updated))
}

// HandleDelete DELETE /api/v1/vendors/{vendorId}/roles/{roleId}/shifts/{shiftId}
// Удаление шаблона не затрагивает уже принятые бронирования
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vendorID, _, ok := h.vendorAndRole(w, r)
	if !ok {
		return
	}
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), vendorID, shiftID); err != nil {
		h.respondServiceError(w, "DELETE /vendors/{id}/roles/{id}/shifts/{id}", err)
		return
	}

	h.logger.Info("DELETE /vendors/{id}/roles/{id}/shifts/{id} - Shift deleted: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleCheckConflicts POST /api/v1/vendors/{vendorId}/roles/{roleId}/shifts/check-conflicts
func (h *Handler) HandleCheckConflicts(w http.ResponseWriter, r *http.Request) {
	vendorID, roleID, ok := h.vendorAndRole(w, r)
	if !ok {
		return
	}

	var req ShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/shifts/check-conflicts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shift, err := req.ToDomain(vendorID, roleID, 0)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/shifts/check-conflicts - Invalid time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	conflicts, err := h.service.CheckConflicts(r.Context(), vendorID, shift)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/roles/{id}/shifts/check-conflicts", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &ConflictsResponse{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    FromDomainList(conflicts),
	})
}

func (h *Handler) vendorAndRole(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	vars := mux.Vars(r)

	vendorID, err := strconv.ParseInt(vars["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("role_shifts - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return 0, 0, false
	}

	roleID, err := strconv.ParseInt(vars["roleId"], 10, 64)
	if err != nil {
		h.logger.Warn("role_shifts - Invalid role ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoleID)
		return 0, 0, false
	}

	return vendorID, roleID, true
}

func (h *Handler) shiftID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("role_shifts - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return 0, false
	}
	return shiftID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, shiftsService.ErrRoleNotFound):
		h.logger.Warn("%s - Role not found: %v", route, err)
		handlers.RespondNotFound(w, msgRoleNotFound)

	case errors.Is(err, shiftsService.ErrShiftNotFound):
		h.logger.Warn("%s - Shift not found: %v", route, err)
		handlers.RespondNotFound(w, msgShiftNotFound)

	case errors.Is(err, shiftsService.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, shiftsService.ErrItemNotServed):
		h.logger.Warn("%s - Item not served: %v", route, err)
		handlers.RespondBadRequest(w, msgItemNotServed)

	case errors.Is(err, shiftsService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
