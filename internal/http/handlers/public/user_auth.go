package public

import (
	"errors"

	"github.com/gamedepot/internal/http/response"
	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserProfile 用户信息响应
type UserProfile struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt int64  `json:"created_at"`
}

func newUserProfile(user *models.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Status:    user.Status,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.Unix(),
	}
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, err := h.UserAuthService.Register(req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			respondError(c, response.CodeBadRequest, "email already registered", nil)
		case errors.Is(err, service.ErrInvalidParams):
			respondError(c, response.CodeBadRequest, "invalid email or password", nil)
		default:
			respondError(c, response.CodeInternal, "failed to register", err)
		}
		return
	}

	token, expiresAt, err := h.UserAuthService.GenerateUserJWT(user)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to issue token", err)
		return
	}

	response.Success(c, gin.H{
		"user":       newUserProfile(user),
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredential):
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
		case errors.Is(err, service.ErrUserBlocked):
			respondError(c, response.CodeForbidden, "account is blocked", nil)
		default:
			respondError(c, response.CodeInternal, "failed to login", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       newUserProfile(user),
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUser(uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to load user", err)
		}
		return
	}

	response.Success(c, newUserProfile(user))
}
