package handler

import (
	"github.com/cloudwego/hertz/pkg/app"
)

// currentUserID 取鉴权中间件写入的 user_id
func currentUserID(c *app.RequestContext) uint64 {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}

// sessionToken 取鉴权中间件写入的会话 token
func sessionToken(c *app.RequestContext) string {
	v, ok := c.Get("session_token")
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}
