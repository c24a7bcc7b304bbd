package schedules

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	schedulesService "github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
)

const (
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidRoleID      = "некорректный ID роли"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidEntryID     = "некорректный ID записи назначения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidParams      = "некорректные параметры запроса"
	msgMissingRange       = "параметры from и to обязательны"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgScheduleNotFound   = "запись назначения не найдена"
	msgRoleNotFound       = "роль не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "недопустимый переход статуса"
	msgStaffInactive      = "сотрудник деактивирован"
	msgStaffNotQualified  = "сотрудник не обслуживает услуги роли"
	msgScheduleConflict   = "назначение пересекается с другим назначением сотрудника"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/vendors/{vendorId}/schedules
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entry, err := req.ToDomain(0)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/schedules - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	created, err := h.service.Create(r.Context(), vendorID, entry)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/schedules", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/schedules - Schedule entry created: entry_id=%d, role_id=%d, staff_id=%d",
		created.ID, created.RoleID, created.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// HandleListByRole GET /api/v1/vendors/{vendorId}/roles/{roleId}/schedules
// Query params: from, to (required, YYYY-MM-DD)
func (h *Handler) HandleListByRole(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleId", msgInvalidRoleID)
	if !ok {
		return
	}

	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	entries, err := h.service.GetByRoleAndDateRange(r.Context(), vendorID, roleID, from, to)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/roles/{id}/schedules", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/roles/{id}/schedules - Schedules retrieved: role_id=%d, count=%d",
		roleID, len(entries))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(entries))
}

// HandleListByStaff GET /api/v1/vendors/{vendorId}/staff/{staffId}/schedules
// Query params: from, to (required, YYYY-MM-DD)
func (h *Handler) HandleListByStaff(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}
	staffID, ok := h.pathID(w, r, "staffId", msgInvalidStaffID)
	if !ok {
		return
	}

	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	entries, err := h.service.GetByStaffAndDateRange(r.Context(), vendorID, staffID, from, to)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/staff/{id}/schedules", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/staff/{id}/schedules - Schedules retrieved: staff_id=%d, count=%d",
		staffID, len(entries))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(entries))
}

// HandleUpdate PUT /api/v1/vendors/{vendorId}/schedules/{entryId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}
	entryID, ok := h.pathID(w, r, "entryId", msgInvalidEntryID)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entry, err := req.ToDomain(entryID)
	if err != nil {
		h.logger.Warn("PUT /vendors/{id}/schedules/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	updated, err := h.service.Update(r.Context(), vendorID, entry)
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/schedules/{id}", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/schedules/{id} - Schedule entry updated: entry_id=%d", entryID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(updated))
}

// HandleDelete DELETE /api/v1/vendors/{vendorId}/schedules/{entryId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}
	entryID, ok := h.pathID(w, r, "entryId", msgInvalidEntryID)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), vendorID, entryID); err != nil {
		h.respondServiceError(w, "DELETE /vendors/{id}/schedules/{id}", err)
		return
	}

	h.logger.Info("DELETE /vendors/{id}/schedules/{id} - Schedule entry deleted: entry_id=%d", entryID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleGenerate POST /api/v1/vendors/{vendorId}/roles/{roleId}/schedules/generate
// Генерация идемпотентна: даты, на которые записи уже существуют, пропускаются
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleId", msgInvalidRoleID)
	if !ok {
		return
	}

	var req GenerateDraftsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/schedules/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	from, err := time.Parse(domain.DateFormat, req.From)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := time.Parse(domain.DateFormat, req.To)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	drafts, err := h.service.GenerateDrafts(r.Context(), vendorID, roleID, req.StaffIDs, from, to)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/roles/{id}/schedules/generate", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/roles/{id}/schedules/generate - Drafts generated: role_id=%d, count=%d",
		roleID, len(drafts))
	handlers.RespondJSON(w, http.StatusCreated, FromDomainList(drafts))
}

// HandlePublish POST /api/v1/vendors/{vendorId}/roles/{roleId}/schedules/publish
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r, "vendorId", msgInvalidVendorID)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleId", msgInvalidRoleID)
	if !ok {
		return
	}

	var req PublishRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/roles/{id}/schedules/publish - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	from, err := time.Parse(domain.DateFormat, req.From)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := time.Parse(domain.DateFormat, req.To)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	published, err := h.service.PublishRange(r.Context(), vendorID, roleID, from, to)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/roles/{id}/schedules/publish", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/roles/{id}/schedules/publish - Schedules published: role_id=%d, count=%d",
		roleID, published)
	handlers.RespondJSON(w, http.StatusOK, &PublishResponse{Published: published})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		h.logger.Warn("schedules - Invalid %s: %v", name, err)
		handlers.RespondBadRequest(w, msg)
		return 0, false
	}
	return id, true
}

func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("schedules - Missing date range")
		handlers.RespondBadRequest(w, msgMissingRange)
		return time.Time{}, time.Time{}, false
	}

	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, schedulesService.ErrScheduleNotFound):
		h.logger.Warn("%s - Schedule entry not found: %v", route, err)
		handlers.RespondNotFound(w, msgScheduleNotFound)

	case errors.Is(err, schedulesService.ErrRoleNotFound):
		h.logger.Warn("%s - Role not found: %v", route, err)
		handlers.RespondNotFound(w, msgRoleNotFound)

	case errors.Is(err, schedulesService.ErrStaffNotFound):
		h.logger.Warn("%s - Staff not found: %v", route, err)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, schedulesService.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, schedulesService.ErrStaffInactive):
		h.logger.Warn("%s - Staff inactive: %v", route, err)
		handlers.RespondConflict(w, msgStaffInactive)

	case errors.Is(err, schedulesService.ErrStaffNotQualified):
		h.logger.Warn("%s - Staff not qualified: %v", route, err)
		handlers.RespondConflict(w, msgStaffNotQualified)

	case errors.Is(err, schedulesService.ErrScheduleConflict):
		h.logger.Warn("%s - Schedule conflict: %v", route, err)
		handlers.RespondConflict(w, msgScheduleConflict)

	case errors.Is(err, schedulesService.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: %v", route, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, schedulesService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
