package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
	"papertrade/conf"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 注册新用户
func Register(ctx context.Context, c *app.RequestContext) {
	var req RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing required fields"})
		return
	}
	user, err := service.Register(req.Name, req.Email, req.Password,
		conf.GetConf().Trading.StartingBalance)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(consts.StatusConflict, map[string]interface{}{"error": "email already registered"})
			return
		}
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
		"balance": user.Balance,
	})
}

// Login 登录并签发会话 token
func Login(ctx context.Context, c *app.RequestContext) {
	var req LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	user, err := service.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(consts.StatusUnauthorized, map[string]interface{}{"error": "invalid email or password"})
			return
		}
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	token, err := service.CreateSession(ctx, user.ID)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"token":   token,
		"user_id": user.ID,
		"name":    user.Name,
		"balance": user.Balance,
	})
}

// Logout 注销会话
func Logout(ctx context.Context, c *app.RequestContext) {
	token := sessionToken(c)
	if token != "" {
		_ = service.DestroySession(ctx, token)
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"status": "ok"})
}
