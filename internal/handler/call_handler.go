package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/response"
)

// CallHandler exposes call outcome endpoints.
type CallHandler struct {
	calls *service.CallService
}

// NewCallHandler constructs CallHandler.
func NewCallHandler(calls *service.CallService) *CallHandler {
	return &CallHandler{calls: calls}
}

// Record logs a call outcome for a student.
func (h *CallHandler) Record(c *gin.Context) {
	var req service.RecordCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.calls.RecordCall(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// History lists the call log for a student, latest first.
func (h *CallHandler) History(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	logs, err := h.calls.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Performance summarises one teacher's outreach outcomes.
func (h *CallHandler) Performance(c *gin.Context) {
	perf, err := h.calls.TeacherPerformance(c.Request.Context(), c.Param("teacher"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, perf, nil)
}
