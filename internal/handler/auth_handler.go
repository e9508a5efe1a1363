package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, resp)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, user)
}

// CreateUser POST /users (admin)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, user)
}

// ListUsers GET /users (admin)
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, users)
}

// UpdateUser PUT /users/:id (admin)
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, user)
}
