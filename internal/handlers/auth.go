package handlers

import (
	"errors"
	"net/http"

	"todoapp/internal/service"

	"github.com/gin-gonic/gin"
)

// Registration payload: profile plus the plaintext password.
type createUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
}

// Login payload, form-encoded like an OAuth2 password grant.
type tokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  createUserRequest  true  "Profile and password"
// @Success      201   {object}  map[string]int
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth [post]
func (h *Handler) createUser(c *gin.Context) {
	var input createUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), service.SignUpParams{
		Email:     input.Email,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  input.Password,
		Role:      input.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUser):
			if h.log != nil {
				h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusConflict, gin.H{"error": service.ErrDuplicateUser.Error()})
		case errors.Is(err, service.ErrInvalidPassword):
			if h.log != nil {
				h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrInvalidPassword.Error()})
		default:
			// Storage and other internal failures never echo their text.
			if h.log != nil {
				h.log.Errorw("auth_sign_up_failed", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Issue an access token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/token [post]
func (h *Handler) issueToken(c *gin.Context) {
	var input tokenRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
		}
		if !errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
			return
		}
		// Unknown user and wrong password are indistinguishable here.
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

// @Summary      List users
// @Tags         auth
// @Produce      json
// @Success      200  {array}  models.User
// @Failure      500  {object}  map[string]string
// @Router       /auth [get]
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.ListUsers(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("auth_list_users_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
