package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// maxBodyPreview caps the request body captured for error logs.
const maxBodyPreview = 2000

var safeHeaders = []string{
	"x-request-id",
	"traceparent",
	"x-source",
	"user-agent",
	"referer",
	"content-type",
	"accept",
}

// ErrorLogger recovers panics and logs every 5xx response with enough request
// context to reproduce it. Authorization and cookies are never logged.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := captureBody(c.Request)

		defer func() {
			if rec := recover(); rec != nil {
				logException(c, body, http.StatusInternalServerError, rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error: "An internal error occurred",
				})
			}
		}()

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			logException(c, body, status, c.Errors.String())
		}
	}
}

// captureBody reads up to maxBodyPreview bytes and restores the body for handlers.
func captureBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	preview, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyPreview))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(preview), r.Body), r.Body}
	return string(preview)
}

func logException(c *gin.Context, body string, status int, cause any) {
	headers := make(map[string]string, len(safeHeaders))
	for _, h := range safeHeaders {
		if v := c.GetHeader(h); v != "" {
			headers[h] = v
		}
	}

	slog.Error("unhandled_exception",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"client_ip", clientIP(c),
		"headers", headers,
		"body_preview", body,
		"error", cause,
	)
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return c.ClientIP()
}
