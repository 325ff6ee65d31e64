package middleware

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/gin-gonic/gin"
)

const maxLoggedBody = 250 * 1024

var bodyPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// capturingWriter copies the first maxLoggedBody bytes of a response.
type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.capture(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *capturingWriter) capture(b []byte) {
	if w.body.Len()+len(b) <= maxLoggedBody {
		w.body.Write(b)
	}
}

// user routes carry passwords and tokens
func loggableBody(route, contentType string) bool {
	return !strings.HasPrefix(route, "/api/users") && strings.Contains(contentType, "application/json")
}

func levelFor(route string, status int) logger.LogLevel {
	switch {
	case status >= 500:
		return logger.LogLevelError
	case status >= 400:
		return logger.LogLevelWarn
	case route == "/api/health":
		return logger.LogLevelDebug
	}
	return logger.LogLevelInfo
}

// LogRequest emits one entry per request once the handlers are done.
// Request id and user id come from the context scope.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		buf := bodyPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer bodyPool.Put(buf)
		c.Writer = &capturingWriter{ResponseWriter: c.Writer, body: buf}

		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		attrs := map[string]any{
			"http.method":        c.Request.Method,
			"http.path":          c.Request.URL.Path,
			"http.route":         route,
			"http.status_code":   status,
			"http.duration_ms":   time.Since(start).Milliseconds(),
			"http.client_ip":     c.ClientIP(),
			"http.response_size": c.Writer.Size(),
		}
		if c.Request.ContentLength > 0 {
			attrs["http.request_size"] = c.Request.ContentLength
		}
		if len(c.Errors) > 0 {
			attrs["http.error"] = c.Errors.Last().Error()
		}
		if buf.Len() > 0 && loggableBody(route, c.Writer.Header().Get("Content-Type")) {
			attrs["http.response_body"] = buf.String()
		}

		logger.Log(c.Request.Context(), logger.LogEntry{
			Level:      levelFor(route, status),
			Message:    "HTTP Request",
			Attributes: attrs,
		})
	}
}
