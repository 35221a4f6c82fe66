package middleware

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// brotliMinLength is the smallest body worth compressing.
const brotliMinLength = 1024

type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// Brotli buffers the response and compresses it when the client accepts br
// and the body is large enough. Review projections with long explanation
// texts benefit the most.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "br") {
			c.Next()
			return
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()
		c.Writer = bw.ResponseWriter

		body := bw.buf.Bytes()
		if len(body) < brotliMinLength {
			c.Writer.Write(body)
			return
		}

		var compressed bytes.Buffer
		enc := brotli.NewWriter(&compressed)
		if _, err := enc.Write(body); err != nil {
			c.Writer.Write(body)
			return
		}
		if err := enc.Close(); err != nil {
			c.Writer.Write(body)
			return
		}

		c.Header("Content-Encoding", "br")
		c.Header("Content-Length", strconv.Itoa(compressed.Len()))
		c.Writer.Write(compressed.Bytes())
	}
}
