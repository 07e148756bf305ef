package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body at maxBytes. A declared Content-Length over
// the cap is rejected with 413 before the handler runs; chunked bodies fail
// on read once the cap is crossed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitBody(c, maxBytes)
	}
}

// UploadAwareBodyLimit applies maxBytes to ordinary requests and skips
// multipart/form-data ones, which the upload routes cap themselves with
// their own BodyLimit.
func UploadAwareBodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() == gin.MIMEMultipartPOSTForm {
			c.Next()
			return
		}
		limitBody(c, maxBytes)
	}
}

func limitBody(c *gin.Context, maxBytes int64) {
	if maxBytes <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
		c.Next()
		return
	}
	if c.Request.ContentLength > maxBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBodyTooLarge,
			"Request body exceeds maximum allowed size",
			GetRequestID(c),
		))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	c.Next()
}
