package v1

import (
	"fmt"
	"net/http"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes under /jobs
func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	jobs := protected.Group("/jobs")
	{
		// Applicant routes
		jobs.GET("/applied", handler.ListApplied)
		jobs.POST("/:id/apply", handler.Apply)

		// Recruiter routes
		jobs.GET("/:id/applicants", handler.ListApplicants)
		jobs.PUT("/:id/applicants/:userId", handler.UpdateStatus)
		jobs.GET("/:id/shortlisted/export", handler.ExportShortlisted)
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,application_status"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Record an application on both the job and the applicant (applicant only)
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      201  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.applicationUC.Apply(c, middleware.PrincipalFrom(c), jobID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Applied successfully", gin.H{"job_id": jobID, "status": domain.ApplicationStatusApplied})
}

// ListApplied godoc
// @Summary      Applied jobs
// @Description  The caller's applications with their current status
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ApplicationRecord}
// @Router       /jobs/applied [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplied(c *gin.Context) {
	records, err := h.applicationUC.ListApplied(c, middleware.PrincipalFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", records)
}

// ListApplicants godoc
// @Summary      Job applicants
// @Description  Applicants of a job in application order (recruiter only)
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.JobApplicants}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/applicants [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	jobID, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	applicants, err := h.applicationUC.ListApplicants(c, middleware.PrincipalFrom(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applicants retrieved", applicants)
}

// UpdateStatus godoc
// @Summary      Update applicant status
// @Description  Set applied, shortlisted or rejected on both application records (recruiter only)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      int                  true  "Job ID"
// @Param        userId  path      string               true  "Applicant user ID"
// @Param        body    body      UpdateStatusRequest  true  "New status"
// @Success      200     {object}  response.Response{data=domain.ApplicantRecord}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /jobs/{id}/applicants/{userId} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	jobID, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}
	userID := c.Param("userId")
	if _, err := uuid.Parse(userID); err != nil {
		c.Error(apperror.BadRequest("Invalid applicant ID"))
		return
	}

	var req UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	record, err := h.applicationUC.UpdateApplicantStatus(c, middleware.PrincipalFrom(c), jobID, userID, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applicant status updated", record)
}

// ExportShortlisted godoc
// @Summary      Export shortlisted applicants
// @Description  Download shortlisted applicants as a spreadsheet (recruiter only)
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        id      path      int     true   "Job ID"
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      502     {object}  response.Response
// @Router       /jobs/{id}/shortlisted/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportShortlisted(c *gin.Context) {
	jobID, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := h.applicationUC.ExportShortlisted(c, middleware.PrincipalFrom(c), jobID, c.DefaultQuery("format", "xlsx"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
