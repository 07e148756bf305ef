package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
)

// maxMultipartFileSize caps any single multipart file read into memory.
// Services apply their own, usually smaller, limits.
const maxMultipartFileSize = 10 << 20

// formFile is a multipart upload read into memory
type formFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// readFormFile reads the multipart file field. It answers the request itself
// when the field is missing, unreadable or too large.
func (h *BaseHandler) readFormFile(c *gin.Context, field string) (*formFile, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		h.invalidParam(c, field, "file is required")
		return nil, false
	}
	defer file.Close()

	if header.Size > maxMultipartFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBodyTooLarge, "File exceeds the maximum size of 10MB")
		return nil, false
	}
	data, err := io.ReadAll(io.LimitReader(file, maxMultipartFileSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return nil, false
	}
	if len(data) > maxMultipartFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBodyTooLarge, "File exceeds the maximum size of 10MB")
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &formFile{Name: header.Filename, ContentType: contentType, Data: data}, true
}
