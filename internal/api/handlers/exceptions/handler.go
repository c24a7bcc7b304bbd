package exceptions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	exceptionsService "github.com/m04kA/SMC-SchedulingService/internal/service/exceptions"
)

const (
	msgInvalidVendorID    = "некорректный ID вендора"
	msgInvalidExceptionID = "некорректный ID исключения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingRange       = "параметры from и to обязательны"
	msgNotFound           = "исключение не найдено"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service ExceptionService
	logger  Logger
}

func NewHandler(service ExceptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/vendors/{vendorId}/exceptions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}

	var req ExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	exc, err := req.ToDomain(vendorID, 0)
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/exceptions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	created, err := h.service.Create(r.Context(), exc)
	if err != nil {
		h.respondServiceError(w, "POST /vendors/{id}/exceptions", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/exceptions - Exception created: exception_id=%d, vendor_id=%d, date=%s",
		created.ID, vendorID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// HandleList GET /api/v1/vendors/{vendorId}/exceptions
// Query params: from, to (required, YYYY-MM-DD)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /vendors/{id}/exceptions - Missing date range")
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	exceptions, err := h.service.GetByVendorAndDateRange(r.Context(), vendorID, from, to)
	if err != nil {
		h.respondServiceError(w, "GET /vendors/{id}/exceptions", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/exceptions - Exceptions retrieved: vendor_id=%d, count=%d",
		vendorID, len(exceptions))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(exceptions))
}

// HandleUpdate PUT /api/v1/vendors/{vendorId}/exceptions/{exceptionId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}
	excID, ok := h.exceptionID(w, r)
	if !ok {
		return
	}

	var req ExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/exceptions/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	exc, err := req.ToDomain(vendorID, excID)
	if err != nil {
		h.logger.Warn("PUT /vendors/{id}/exceptions/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	updated, err := h.service.Update(r.Context(), exc)
	if err != nil {
		h.respondServiceError(w, "PUT /vendors/{id}/exceptions/{id}", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/exceptions/{id} - Exception updated: exception_id=%d", excID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(updated))
}

// HandleDelete DELETE /api/v1/vendors/{vendorId}/exceptions/{exceptionId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.vendorID(w, r)
	if !ok {
		return
	}
	excID, ok := h.exceptionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), vendorID, excID); err != nil {
		h.respondServiceError(w, "DELETE /vendors/{id}/exceptions/{id}", err)
		return
	}

	h.logger.Info("DELETE /vendors/{id}/exceptions/{id} - Exception deleted: exception_id=%d", excID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) vendorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vendorID, err := strconv.ParseInt(mux.Vars(r)["vendorId"], 10, 64)
	if err != nil {
		h.logger.Warn("exceptions - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return 0, false
	}
	return vendorID, true
}

func (h *Handler) exceptionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	excID, err := strconv.ParseInt(mux.Vars(r)["exceptionId"], 10, 64)
	if err != nil {
		h.logger.Warn("exceptions - Invalid exception ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return 0, false
	}
	return excID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, exceptionsService.ErrExceptionNotFound):
		h.logger.Warn("%s - Exception not found: %v", route, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, exceptionsService.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, exceptionsService.ErrForeignScope):
		h.logger.Warn("%s - Foreign scope: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, exceptionsService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
