package staff

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	staffService "github.com/m04kA/SMC-SchedulingService/internal/service/staff"
)

const (
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStaffNotFound      = "сотрудник не найден"
	msgShiftNotFound      = "смена не найдена"
	msgForbidden          = "доступ запрещен"
	msgShiftTooShort      = "смена короче минимальной длительности"
	msgShiftTooLong       = "смена длиннее максимальной длительности"
	msgShiftOverlap       = "смена пересекается с другой или не соблюден перерыв"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/vendors/{vendorId}/staff
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}

	var req StaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	staff, err := h.service.Create(r.Context(), req.ToDomain(vendorID, 0))
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/staff", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/staff - Staff created: staff_id=%d, vendor_id=%d", staff.ID, vendorID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(staff))
}

// HandleGet GET /api/v1/vendors/{vendorId}/staff/{staffId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}

	staff, err := h.service.GetByID(r.Context(), vendorID, staffID)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/staff/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(staff))
}

// HandleList GET /api/v1/vendors/{vendorId}/staff
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}

	staff, err := h.service.GetByVendor(r.Context(), vendorID)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/staff", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/staff - Staff retrieved: vendor_id=%d, count=%d", vendorID, len(staff))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(staff))
}

// HandleUpdate PUT /api/v1/vendors/{vendorId}/staff/{staffId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}

	var req StaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/staff/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	staff, err := h.service.Update(r.Context(), req.ToDomain(vendorID, staffID))
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/staff/{id}", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/staff/{id} - Staff updated: staff_id=%d", staffID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(staff))
}

// HandleAddShift POST /api/v1/vendors/{vendorId}/staff/{staffId}/shifts
func (h *Handler) HandleAddShift(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}

	var req StaffShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/staff/{id}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shift, err := req.ToDomain(staffID, 0)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/staff/{id}/shifts - Invalid time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	created, err := h.service.AddShift(r.Context(), vendorID, shift)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/staff/{id}/shifts", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/staff/{id}/shifts - Shift added: shift_id=%d, staff_id=%d", created.ID, staffID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainShift(created))
}

// HandleUpdateShift PUT /api/v1/vendors/{vendorId}/staff/{staffId}/shifts/{shiftId}
func (h *Handler) HandleUpdateShift(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	var req StaffShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/staff/{id}/shifts/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shift, err := req.ToDomain(staffID, shiftID)
	if err != nil {
		h.logger.Warn("PUT /vendors/{id}/staff/{id}/shifts/{id} - Invalid time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	updated, err := h.service.UpdateShift(r.Context(), vendorID, shift)
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/staff/{id}/shifts/{id}", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/staff/{id}/shifts/{id} - Shift updated: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainShift(updated))
}

// HandleDeleteShift DELETE /api/v1/vendors/{vendorId}/staff/{staffId}/shifts/{shiftId}
func (h *Handler) HandleDeleteShift(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteShift(r.Context(), vendorID, staffID, shiftID); err != nil {
		h.respondServiceError(w, "DELETE /vendors/{id}/staff/{id}/shifts/{id}", err)
		return
	}

	h.logger.Info("DELETE /vendors/{id}/staff/{id}/shifts/{id} - Shift deleted: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleReplaceShifts PUT /api/v1/vendors/{vendorId}/staff/{staffId}/shifts
// Замена атомарна: либо применяется весь набор, либо ни одной смены
func (h *Handler) HandleReplaceShifts(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}

	var req ReplaceShiftsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/staff/{id}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	shifts := make([]*domain.StaffShift, 0, len(req.Shifts))
	for _, shiftReq := range req.Shifts {
		shift, err := shiftReq.ToDomain(staffID, 0)
		if err != nil {
			h.logger.Warn("PUT /vendors/{id}/staff/{id}/shifts - Invalid time format: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		shifts = append(shifts, shift)
	}

	replaced, err := h.service.ReplaceShifts(r.Context(), vendorID, staffID, shifts)
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/staff/{id}/shifts", err)
		return
	}

	result := make([]StaffShiftResponse, 0, len(replaced))
	for _, shift := range replaced {
		result = append(result, FromDomainShift(shift))
	}

	h.logger.Info("PUT /vendors/{id}/staff/{id}/shifts - Shifts replaced: staff_id=%d, count=%d", staffID, len(replaced))
	handlers.RespondJSON(w, http.StatusOK, &ShiftsListResponse{Shifts: result})
}

// HandleWorkload GET /api/v1/vendors/{vendorId}/staff/{staffId}/workload
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) HandleWorkload(w http.ResponseWriter, r *http.Request) {
	vendorID, staffID, ok := h.vendorAndStaff(w, r)
	if !ok {
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /vendors/{id}/staff/{id}/workload - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/staff/{id}/workload - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	summary, err := h.service.Workload(r.Context(), vendorID, staffID, date)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/staff/{id}/workload", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/staff/{id}/workload - Workload retrieved: staff_id=%d, date=%s", staffID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromDomainWorkload(summary))
}

func (h *Handler) vendorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vendorID, err := strconv.ParseInt(mux.Vars(r)["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("staff - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return 0, false
	}
	return vendorID, true
}

func (h *Handler) vendorAndStaff(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return 0, 0, false
	}

	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("staff - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return 0, 0, false
	}

	return vendorID, staffID, true
}

func (h *Handler) shiftID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("staff - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return 0, false
	}
	return shiftID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, staffService.ErrStaffNotFound):
		h.logger.Warn("%s - Staff not found: %v", route, err)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, staffService.ErrShiftNotFound):
		h.logger.Warn("%s - Shift not found: %v", route, err)
		handlers.RespondNotFound(w, msgShiftNotFound)

	case errors.Is(err, staffService.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, staffService.ErrShiftTooShort):
		h.logger.Warn("%s - Shift too short: %v", route, err)
		handlers.RespondBadRequest(w, msgShiftTooShort)

	case errors.Is(err, staffService.ErrShiftTooLong):
		h.logger.Warn("%s - Shift too long: %v", route, err)
		handlers.RespondBadRequest(w, msgShiftTooLong)

	case errors.Is(err, staffService.ErrShiftOverlap):
		h.logger.Warn("%s - Shift overlap: %v", route, err)
		handlers.RespondConflict(w, msgShiftOverlap)

	case errors.Is(err, staffService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
