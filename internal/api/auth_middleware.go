package api

import (
	"net/http"

	"hrportal/internal/entity"
	"hrportal/internal/session"
	"hrportal/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	sessionContextKey = "session-record"
)

// SessionMiddleware 从 cookie 加载会话记录，未登录时为匿名记录
func (h *HTTPHandler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, h.sessions.Load(c.Request))
		c.Next()
	}
}

// RequireSession 登录守卫：没有有效令牌时跳转登录页
func (h *HTTPHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			h.rejectAnonymous(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理员守卫：非管理员同样跳转登录页
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := CurrentSession(c)
		if current == nil || !current.Role.IsAdmin() {
			h.rejectAnonymous(c)
			return
		}
		c.Next()
	}
}

func (h *HTTPHandler) rejectAnonymous(c *gin.Context) {
	logrus.WithField("path", c.Request.URL.Path).Info("no session, redirecting to login")
	if wantsJSON(c) {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeSessionExpired, "login required")
		return
	}
	c.Redirect(http.StatusSeeOther, workflow.RouteHome)
	c.Abort()
}

// CurrentRecord 从上下文获取会话记录
func CurrentRecord(c *gin.Context) *session.Record {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	rec, ok := value.(*session.Record)
	if !ok {
		return nil
	}
	return rec
}

// CurrentSession 从上下文获取当前登录令牌
func CurrentSession(c *gin.Context) *entity.Session {
	rec := CurrentRecord(c)
	if rec == nil {
		return nil
	}
	return rec.Session
}
