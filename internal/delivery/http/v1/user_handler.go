package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userUC         domain.UserUsecase
	resumeMaxBytes int
}

func NewUserHandler(protected *gin.RouterGroup, userUC domain.UserUsecase, resumeMaxBytes int, uploadLimit gin.HandlerFunc) {
	handler := &UserHandler{userUC: userUC, resumeMaxBytes: resumeMaxBytes}

	users := protected.Group("/users")
	{
		users.GET("/me", handler.Me)
		users.PUT("/profile", uploadLimit, handler.UpdateProfile)
		users.GET("/:id", handler.GetProfile)
	}
}

// UpdateProfileRequest leaves a field untouched when it is omitted.
type UpdateProfileRequest struct {
	Name   *string   `json:"name" binding:"omitempty,min=1,max=100,valid_name,no_emoji"`
	Skills SkillList `json:"skills" binding:"omitempty,max=50,dive,skill"`
}

// Me godoc
// @Summary      Current user
// @Description  Returns the caller's full profile including applied jobs.
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userUC.GetMe(c, middleware.PrincipalFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", user)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Update name, skills and resume. Email, role and password cannot be changed here.
// @Tags         users
// @Accept       json,mpfd
// @Produce      json
// @Param        profile  body      UpdateProfileRequest  true  "Profile changes"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /users/profile [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	var resume *domain.ResumeUpload
	skillsSent := false

	if isMultipart(c) {
		if name, ok := c.GetPostForm("name"); ok {
			req.Name = &name
		}
		if values, ok := c.GetPostFormArray("skills"); ok {
			req.Skills = domain.ParseSkillList(values...)
			skillsSent = true
		}
		if err := validateStruct(&req); err != nil {
			c.Error(err)
			return
		}
		var err error
		if resume, err = readResume(c, h.resumeMaxBytes); err != nil {
			c.Error(err)
			return
		}
	} else {
		if err := bindJSON(c, &req); err != nil {
			c.Error(err)
			return
		}
		skillsSent = req.Skills != nil
	}

	update := domain.ProfileUpdate{Name: req.Name, Resume: resume}
	if skillsSent {
		update.Skills = []string(req.Skills)
		if update.Skills == nil {
			update.Skills = []string{}
		}
	}

	user, err := h.userUC.UpdateProfile(c, middleware.PrincipalFrom(c), update)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

// GetProfile godoc
// @Summary      Public profile
// @Description  Another user's public profile. Role and credentials are never included.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
// @Security     BearerAuth
func (h *UserHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.Error(apperror.BadRequest("Invalid user ID"))
		return
	}

	profile, err := h.userUC.GetPublicProfile(c, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}
