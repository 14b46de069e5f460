package rest

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxUploadFiles  = 5
	maxUploadSize   = 10 << 20 // 10MB per file
	uploadFieldName = "files"
)

// allowedUploadExt mirrors what the editor embeds: images, video,
// documents.
var allowedUploadExt = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
	".mp4": true, ".webm": true, ".ogg": true,
	".pdf": true, ".doc": true, ".docx": true,
}

var allowedUploadMime = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
	"video/mp4": true, "video/webm": true, "video/ogg": true, "audio/ogg": true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadHandler stores editor attachments on local disk and hands back
// their public URLs.
type UploadHandler struct {
	Dir     string
	BaseURL string
}

func NewUploadHandler(dir, baseURL string) *UploadHandler {
	return &UploadHandler{
		Dir:     dir,
		BaseURL: baseURL,
	}
}

type uploadedFile struct {
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// Upload accepts up to five files in one multipart request.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	files := form.File[uploadFieldName]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, ResponseError{Message: "no files uploaded"})
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, ResponseError{Message: fmt.Sprintf("at most %d files per upload", maxUploadFiles)})
		return
	}

	for _, file := range files {
		if err := validateUpload(file); err != nil {
			c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
			return
		}
	}

	uploaded := make([]uploadedFile, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, file := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(h.Dir, name)); err != nil {
			c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
			return
		}
		url := h.BaseURL + "/uploads/" + name
		urls = append(urls, url)
		uploaded = append(uploaded, uploadedFile{
			OriginalName: file.Filename,
			Filename:     name,
			Size:         file.Size,
			URL:          url,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"urls":  urls,
		"files": uploaded,
	})
}

func validateUpload(file *multipart.FileHeader) error {
	if file.Size > maxUploadSize {
		return fmt.Errorf("file %s exceeds the %dMB limit", file.Filename, maxUploadSize>>20)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExt[ext] {
		return fmt.Errorf("file type %s is not allowed", ext)
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !allowedUploadMime[ct] {
		return fmt.Errorf("content type %s is not allowed", ct)
	}
	return nil
}
