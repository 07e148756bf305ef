package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SignedFileStore serves objects behind signed, expiring links
type SignedFileStore interface {
	Verify(key, expires, signature string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
}

// FileHandler serves downloads of locally stored objects
type FileHandler struct {
	BaseHandler
	store SignedFileStore
}

// NewFileHandler creates a new file handler
func NewFileHandler(store SignedFileStore) *FileHandler {
	return &FileHandler{store: store}
}

// Download godoc
// @ID           downloadFile
// @Summary      Download a stored file
// @Description  Links come from attachment and report archive endpoints and need no token
// @Tags         files
// @Produce      octet-stream
// @Param        key path string true "Object key"
// @Param        expires query int true "Expiry (unix seconds)"
// @Param        signature query string true "Link signature"
// @Success      200 {file} file
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /files/{key} [get]
func (h *FileHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.NotFound(c, "File not found")
		return
	}
	if err := h.store.Verify(key, c.Query("expires"), c.Query("signature")); err != nil {
		h.HandleError(c, err)
		return
	}
	data, contentType, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, contentType, data)
}
