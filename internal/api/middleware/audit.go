package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const auditBodyLimit = 16384

var auditSkipPaths = map[string]struct{}{
	"/metrics":  {},
	"/api/ping": {},
}

// auditWriter 复制响应体，超出上限的部分只透传不记录
type auditWriter struct {
	gin.ResponseWriter
	captured bytes.Buffer
}

func (w *auditWriter) Write(b []byte) (int, error) {
	if remain := auditBodyLimit - w.captured.Len(); remain > 0 {
		w.captured.Write(b[:min(len(b), remain)])
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AuditMiddleware 请求结束后输出一条审计日志，含浏览者与请求/响应体
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := auditSkipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		w := &auditWriter{ResponseWriter: c.Writer}
		c.Writer = w
		start := time.Now()

		c.Next()

		log.InfoContext(c.Request.Context(), "audit",
			log.String("method", c.Request.Method),
			log.String("route", c.FullPath()),
			log.String("query", c.Request.URL.RawQuery),
			log.Uint64("viewer_id", c.GetUint64("user_id")),
			log.Int("status", w.Status()),
			log.Duration("latency", time.Since(start)),
			log.String("req_body", string(reqBody[:min(len(reqBody), auditBodyLimit)])),
			log.String("res_body", w.captured.String()),
			log.Bool("truncated", len(reqBody) > auditBodyLimit || w.captured.Len() >= auditBodyLimit),
		)
	}
}
