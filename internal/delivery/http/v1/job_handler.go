package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := protected.Group("/jobs")
	{
		jobs.POST("", handler.Create)
		jobs.GET("/mine", handler.ListMine)
		jobs.GET("/search", handler.Search)
		jobs.GET("/relevant", handler.Relevant)
		jobs.GET("/:id", handler.GetDetails)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
	}
}

// JobRequest is shared by create and update. On update, omitted fields keep their value.
type JobRequest struct {
	Title              *string   `json:"title" binding:"omitempty,min=1,max=200,no_emoji"`
	Description        *string   `json:"description" binding:"omitempty,max=10000"`
	ExperienceRequired *string   `json:"experience_required" binding:"omitempty,max=100"`
	Location           *string   `json:"location" binding:"omitempty,max=200"`
	Company            *string   `json:"company" binding:"omitempty,max=200"`
	Salary             *string   `json:"salary" binding:"omitempty,max=100"`
	SkillsRequired     SkillList `json:"skills_required" binding:"omitempty,max=50,dive,skill"`
}

func (r JobRequest) toInput() domain.JobInput {
	return domain.JobInput{
		Title:              r.Title,
		Description:        r.Description,
		ExperienceRequired: r.ExperienceRequired,
		Location:           r.Location,
		Company:            r.Company,
		Salary:             r.Salary,
		SkillsRequired:     r.SkillsRequired,
		SkillsProvided:     r.SkillsRequired != nil,
	}
}

// CreateJob godoc
// @Summary      Create a new job
// @Description  Create a new job posting (recruiter only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.CreateJob(c, middleware.PrincipalFrom(c), req.toInput())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListMine godoc
// @Summary      Recruiter's jobs
// @Description  Jobs posted by the calling recruiter, oldest first
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Failure      403  {object}  response.Response
// @Router       /jobs/mine [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobUC.ListMyJobs(c, middleware.PrincipalFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// Search godoc
// @Summary      Search jobs
// @Description  Case-insensitive substring match on title, location and experience; every listed skill must be required by the job.
// @Tags         jobs
// @Produce      json
// @Param        title       query     string  false  "Title contains"
// @Param        location    query     string  false  "Location contains"
// @Param        experience  query     string  false  "Experience contains"
// @Param        skills      query     string  false  "Comma-separated skills"
// @Success      200         {object}  response.Response{data=[]domain.Job}
// @Router       /jobs/search [get]
// @Security     BearerAuth
func (h *JobHandler) Search(c *gin.Context) {
	filter := domain.JobSearchFilter{
		Title:      c.Query("title"),
		Location:   c.Query("location"),
		Experience: c.Query("experience"),
		Skills:     domain.ParseSkillList(c.QueryArray("skills")...),
	}

	jobs, err := h.jobUC.Search(c, filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// Relevant godoc
// @Summary      Relevant jobs
// @Description  Jobs sharing at least one skill with the caller, most matched skills first
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.RankedJob}
// @Router       /jobs/relevant [get]
// @Security     BearerAuth
func (h *JobHandler) Relevant(c *gin.Context) {
	jobs, err := h.jobUC.FindRelevant(c, middleware.PrincipalFrom(c).Skills)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Relevant jobs retrieved", jobs)
}

// GetDetails godoc
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// UpdateJob godoc
// @Summary      Update job
// @Description  Partial update of a job posting (recruiter only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int         true  "Job ID"
// @Param        job  body      JobRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req JobRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.UpdateJob(c, middleware.PrincipalFrom(c), id, req.toInput())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete job
// @Description  Delete a job and every application to it (recruiter only)
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := parseJobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c, middleware.PrincipalFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}
