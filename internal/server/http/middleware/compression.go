package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DecompressRequest replaces a gzip-encoded request body with its
// decompressed form before the handlers bind it.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := c.GetHeader("Content-Encoding")
		if !strings.Contains(encoding, "gzip") {
			c.Next()
			return
		}

		compressed := c.Request.Body
		defer compressed.Close()

		unpacked, err := gzip.NewReader(compressed)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		defer unpacked.Close()

		c.Request.Body = io.NopCloser(unpacked)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1

		c.Next()
	}
}
