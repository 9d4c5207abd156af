package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/response"
)

// UserHandler exposes user administration endpoints.
type UserHandler struct {
	users      *service.UserService
	metrics    *service.MetricsService
	importOpts importer.Options
	maxUpload  int64
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *service.UserService, metrics *service.MetricsService, importOpts importer.Options, maxUpload int64) *UserHandler {
	return &UserHandler{users: users, metrics: metrics, importOpts: importOpts, maxUpload: maxUpload}
}

// List returns all users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

type setStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetStatus enables or disables an account.
func (h *UserHandler) SetStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.users.SetActive(c.Request.Context(), id, *req.IsActive, actorName(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// ResetPassword replaces a user's password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), id, req, actorName(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// TeachersByUnit lists active teachers available for a unit.
func (h *UserHandler) TeachersByUnit(c *gin.Context) {
	teachers, err := h.users.TeachersByUnit(c.Request.Context(), c.Param("unit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Import ingests a user CSV upload.
func (h *UserHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no file uploaded"))
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close()

	src, err := importer.NewRowSource(file, h.importOpts)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid csv file"))
		return
	}

	report, err := h.users.BulkImport(c.Request.Context(), src, actorName(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordImportRows("users", report.Imported, report.Skipped, report.Failed)
	}
	response.JSON(c, http.StatusOK, report, nil)
}
