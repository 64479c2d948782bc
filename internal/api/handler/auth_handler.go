package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 注册接口
func (s *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.authService.Register(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Login 登录接口
func (s *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.authService.Login(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Logout 登出接口，token 进黑名单
func (s *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := s.authService.Logout(c, token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetProfile 当前用户资料
func (s *AuthHandler) GetProfile(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	res, err := s.authService.GetProfile(c, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
