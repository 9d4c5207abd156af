package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/middleware"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/response"
)

// StudentHandler exposes student registry endpoints.
type StudentHandler struct {
	students   *service.StudentService
	metrics    *service.MetricsService
	importOpts importer.Options
	maxUpload  int64
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, metrics *service.MetricsService, importOpts importer.Options, maxUpload int64) *StudentHandler {
	return &StudentHandler{students: students, metrics: metrics, importOpts: importOpts, maxUpload: maxUpload}
}

// List returns students with filtering and pagination.
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Status = c.Query("status")
	filter.Unit = c.Query("unit")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get returns a single student.
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Import ingests a student CSV upload. Malformed rows are skipped and a
// per-outcome report is returned; rows already written stay written even when
// later rows fail.
func (h *StudentHandler) Import(c *gin.Context) {
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

	actor := actorName(c)
	report, err := h.students.BulkImport(c.Request.Context(), src, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordImportRows("students", report.Imported, report.Skipped, report.Failed)
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// TeacherStudents returns the worklist for a teacher.
func (h *StudentHandler) TeacherStudents(c *gin.Context) {
	teacher := strings.TrimSpace(c.Query("teacher"))
	students, err := h.students.ListByTeacher(c.Request.Context(), teacher)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// actorName resolves the audit identity for the request.
func actorName(c *gin.Context) string {
	if claims, ok := middleware.Claims(c); ok {
		return claims.Username
	}
	return models.RoleSuperAdmin
}
