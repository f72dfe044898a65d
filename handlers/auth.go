package handlers

import (
	"errors"
	"net/http"

	"github.com/codegrapher/graphers/internal/users"
	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/metrics"
	"github.com/codegrapher/graphers/pkg/middleware"
	"github.com/codegrapher/graphers/pkg/response"
	"github.com/gin-gonic/gin"
)

// RegisterRequest is the body of POST /user/.
type RegisterRequest struct {
	FullName string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	City     string `json:"city" binding:"required,min=1,max=50"`
}

// CredentialsRequest accepts JSON {email, password} or an OAuth2 password
// form with username and password fields.
type CredentialsRequest struct {
	Email    string `json:"email" form:"username" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenResponse is the OAuth2-style answer of POST /user/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc *users.Service
}

func NewAuthHandler(u *users.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u}
}

// Register routes under /user. auth guards the routes that need a bearer token.
func (h *AuthHandler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	u := r.Group("/user")
	u.POST("/", h.RegisterUser)
	u.POST("/token", h.Token)
	u.POST("/login", h.Login)
	u.GET("/me", auth, h.Me)
}

// RegisterUser creates a credential record.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	u, err := h.usersSvc.Register(c.Request.Context(), users.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		City:     req.City,
	})
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			response.Error(c, http.StatusBadRequest, "Bad Request", "Email already registered")
			return
		}
		// max=72 counts characters; multi-byte passwords can still exceed bcrypt's limit
		if errors.Is(err, users.ErrPasswordTooLong) {
			response.FieldError(c, "password", "must be at most 72 bytes")
			return
		}
		logger.Errorf("register user: %v", err)
		response.Error(c, http.StatusInternalServerError, "Internal Server Error", "could not register user")
		return
	}
	logger.Infof("registered user %s", u.Email)
	response.OK(c, http.StatusOK, u, "user added successfully.")
}

// authenticate runs the credential exchange and answers the failure cases.
func (h *AuthHandler) authenticate(c *gin.Context, req CredentialsRequest) (string, bool) {
	tok, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err == nil {
		return tok, true
	}
	if errors.Is(err, users.ErrInvalidCredentials) {
		metrics.AuthFailures.WithLabelValues("credentials").Inc()
		response.Unauthorized(c, "Incorrect username or password")
		return "", false
	}
	logger.Errorf("authenticate: %v", err)
	response.Error(c, http.StatusInternalServerError, "Internal Server Error", "could not authenticate")
	return "", false
}

// Token implements the OAuth2 password grant used by API clients.
func (h *AuthHandler) Token(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	tok, ok := h.authenticate(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(h.usersSvc.TokenTTL().Seconds()),
	})
}

// Login is the JSON credential exchange wrapped in the standard envelope.
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	tok, ok := h.authenticate(c, req)
	if !ok {
		return
	}
	response.OK(c, http.StatusOK, gin.H{"access_token": tok, "token_type": "bearer"}, "User Login successfully")
}

// Me returns the record of the authorized caller.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}
	response.OK(c, http.StatusOK, u, "User data retrieved successfully")
}
