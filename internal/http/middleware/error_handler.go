package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/logger"
)

// ErrorHandler отдаёт ошибки, добавленные через c.Error, если хендлер не успел ответить сам.
// Панику превращает в 500 с общим сообщением.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(logrus.Fields{
					"panic":  fmt.Sprint(r),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"stack":  string(debug.Stack()),
				}).Error("http: panic в обработчике")
				response.Error(c, fmt.Errorf("panic: %v", r))
			}
		}()

		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		response.Error(c, c.Errors.Last().Err)
	}
}

// RequestLogger пишет строку access-лога на каждый запрос.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		fields := logrus.Fields{
			"status":   c.Writer.Status(),
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"duration": time.Since(started).String(),
			"ip":       c.ClientIP(),
		}
		if actor, ok := ActorFrom(c); ok {
			fields["user_id"] = actor.UserID
		}

		entry := logger.WithComponent("http").WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("http: запрос")
		case c.Writer.Status() >= 400:
			entry.Warn("http: запрос")
		default:
			entry.Info("http: запрос")
		}
	}
}
