package roles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	rolesService "github.com/m04kA/SMC-SchedulingService/internal/service/roles"
)

const (
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidRoleID      = "некорректный ID роли"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "роль не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service RoleService
	logger  Logger
}

func NewHandler(service RoleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/vendors/{vendorId}/roles
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}

	var req RoleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/roles - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	role, err := h.service.Create(r.Context(), req.ToDomain(vendorID, 0))
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/roles", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/roles - Role created: role_id=%d, vendor_id=%d", role.ID, vendorID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(role))
}

// HandleGet GET /api/v1/vendors/{vendorId}/roles/{roleId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.roleID(w, r)
	if !ok {
		return
	}

	role, err := h.service.GetByID(r.Context(), vendorID, roleID)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/roles/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(role))
}

// HandleList GET /api/v1/vendors/{vendorId}/roles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}

	roles, err := h.service.GetByVendor(r.Context(), vendorID)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/roles", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/roles - Roles retrieved: vendor_id=%d, count=%d", vendorID, len(roles))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(roles))
}

// HandleUpdate PUT /api/v1/vendors/{vendorId}/roles/{roleId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.roleID(w, r)
	if !ok {
		return
	}

	var req RoleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/roles/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	role, err := h.service.Update(r.Context(), req.ToDomain(vendorID, roleID))
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/roles/{id}", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/roles/{id} - Role updated: role_id=%d, vendor_id=%d", roleID, vendorID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(role))
}

// HandleDelete DELETE /api/v1/vendors/{vendorId}/roles/{roleId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.roleID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), vendorID, roleID); err != nil {
		h.respondServiceError(w, "DELETE /vendors/{id}/roles/{id}", err)
		return
	}

	h.logger.Info("DELETE /vendors/{id}/roles/{id} - Role deleted: role_id=%d, vendor_id=%d", roleID, vendorID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) vendorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vendorID, err := strconv.ParseInt(mux.Vars(r)["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("roles - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return 0, false
	}
	return vendorID, true
}

func (h *Handler) roleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	roleID, err := strconv.ParseInt(mux.Vars(r)["roleId"], 10, 64)
	if err != nil {
		h.logger.Warn("roles - Invalid role ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoleID)
		return 0, false
	}
	return roleID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, rolesService.ErrRoleNotFound):
		h.logger.Warn("%s - Role not found: %v", route, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, rolesService.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, rolesService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
