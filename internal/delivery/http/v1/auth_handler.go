package v1

import (
	"net/http"
	"time"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const refreshTokenCookie = "refreshToken"

// CookieSettings controls the auth cookies set on login and registration.
type CookieSettings struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authUC         domain.AuthUsecase
	cookies        CookieSettings
	resumeMaxBytes int
}

func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase, cookies CookieSettings, resumeMaxBytes int, loginLimit, uploadLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, cookies: cookies, resumeMaxBytes: resumeMaxBytes}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", uploadLimit, handler.Register)
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/refresh-token", handler.Refresh)
	}
}

type RegisterRequest struct {
	Name     string    `json:"name" binding:"required,max=100,valid_name,no_emoji"`
	Email    string    `json:"email" binding:"required,email,max=254"`
	Password string    `json:"password" binding:"required,min=6,max=72"`
	Role     string    `json:"role" binding:"required,role"`
	Skills   SkillList `json:"skills" binding:"omitempty,max=50,dive,skill"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register an applicant or recruiter. Accepts JSON, or multipart form data with an optional "resume" file.
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      502       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	var resume *domain.ResumeUpload

	if isMultipart(c) {
		req = RegisterRequest{
			Name:     c.PostForm("name"),
			Email:    c.PostForm("email"),
			Password: c.PostForm("password"),
			Role:     c.PostForm("role"),
			Skills:   domain.ParseSkillList(c.PostFormArray("skills")...),
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
	} else if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	result, err := h.authUC.Register(c, domain.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Skills:   req.Skills,
		Resume:   resume,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, http.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary      User Login
// @Description  Authenticate with email and password. An optional role asserts the account type.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	result, err := h.authUC.Login(c, req.Email, req.Password, req.Role)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Refresh godoc
// @Summary      Refresh access token
// @Description  Issue a new access token from the refreshToken cookie or the request body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  false  "Refresh token when no cookie is sent"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req RefreshRequest
		// Body is optional when the cookie is present
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	access, err := h.authUC.Refresh(c, token)
	if err != nil {
		c.Error(err)
		return
	}

	h.setCookie(c, middleware.AccessTokenCookie, access, h.cookies.AccessTTL)
	response.Success(c, http.StatusOK, "Token refreshed", gin.H{"access_token": access})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, access, refresh string) {
	h.setCookie(c, middleware.AccessTokenCookie, access, h.cookies.AccessTTL)
	h.setCookie(c, refreshTokenCookie, refresh, h.cookies.RefreshTTL)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", h.cookies.Secure, true)
}
