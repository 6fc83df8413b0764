package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

// SessionAuth 会话鉴权中间件：Authorization: Bearer <token>，
// token 在 redis 里换出 user_id 放进请求上下文。
func SessionAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		auth := string(c.GetHeader("Authorization"))
		if !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(consts.StatusUnauthorized, map[string]interface{}{"error": "missing bearer token"})
			c.Abort()
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" {
			c.JSON(consts.StatusUnauthorized, map[string]interface{}{"error": "missing bearer token"})
			c.Abort()
			return
		}
		userID, err := service.ResolveSession(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				c.JSON(consts.StatusUnauthorized, map[string]interface{}{"error": "session expired"})
			} else {
				c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
			}
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Set("session_token", token)
		c.Next(ctx)
	}
}
