package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		fields := logrus.Fields{
			"method":    ctx.Request.Method,
			"path":      ctx.Request.URL.Path,
			"status":    ctx.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  ctx.ClientIP(),
		}
		if id := PrincipalID(ctx); id != 0 {
			fields["principalId"] = id
			fields["role"] = ctx.GetString(roleKey)
		}
		entry := logrus.WithFields(fields)
		if len(ctx.Errors) > 0 {
			entry = entry.WithField("errors", ctx.Errors.String())
		}

		switch status := ctx.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
