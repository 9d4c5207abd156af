package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/response"
)

// AssignmentHandler exposes the assignment and reassignment workflow.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// RecordPreference updates a student's preferred unit.
func (h *AssignmentHandler) RecordPreference(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RecordPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Actor == "" {
		req.Actor = actorName(c)
	}
	if err := h.assignments.RecordPreference(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// Ensure creates or repairs the assignment row for a student.
func (h *AssignmentHandler) Ensure(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.EnsureAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Actor == "" {
		req.Actor = actorName(c)
	}
	outcome, err := h.assignments.EnsureAssignment(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "outcome": outcome}, nil)
}

// AssignSubAdmin delegates a student to a sub-admin.
func (h *AssignmentHandler) AssignSubAdmin(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AssignSubAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Admin == "" {
		req.Admin = actorName(c)
	}
	if err := h.assignments.AssignToSubAdmin(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// Reassign moves an assigned student to a new unit and teacher.
func (h *AssignmentHandler) Reassign(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Admin == "" {
		req.Admin = actorName(c)
	}
	if err := h.assignments.Reassign(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// Unassigned returns students without an actionable assignment.
func (h *AssignmentHandler) Unassigned(c *gin.Context) {
	students, err := h.assignments.ListUnassigned(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// ReassignmentQueue returns students whose preference diverges from their
// assigned unit.
func (h *AssignmentHandler) ReassignmentQueue(c *gin.Context) {
	candidates, err := h.assignments.ListReassignmentQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}
