package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// MediaURL is the URL prefix uploaded files are served under.
	MediaURL       = "/media"
	postImagesDir  = "posts_images"
	maxImageUpload = 5 << 20
)

var (
	errNoUpload       = errors.New("no file uploaded")
	errBadImage       = errors.New("unsupported image type")
	errImageTooLarge  = errors.New("image too large")
	allowedImageTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// saveImage stores the multipart "image" field under mediaDir and returns its
// public URL. errNoUpload means the request carried no file.
func saveImage(c *gin.Context, mediaDir string) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", errNoUpload
	}
	if fh.Size > maxImageUpload {
		return "", errImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	f.Close()

	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", errBadImage
	}

	dir := filepath.Join(mediaDir, postImagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path.Join(MediaURL, postImagesDir, name), nil
}

// discardImage deletes a file stored by saveImage whose post was never saved.
func discardImage(mediaDir, url string) error {
	rel := strings.TrimPrefix(url, MediaURL+"/")
	if url == "" || rel == url || strings.Contains(rel, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(mediaDir, filepath.FromSlash(rel))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// imageFieldError maps an upload failure to a form error, or "" if the
// failure is not the client's fault.
func imageFieldError(err error) string {
	switch {
	case errors.Is(err, errBadImage):
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	case errors.Is(err, errImageTooLarge):
		return fmt.Sprintf("Ensure the image is at most %d MB.", maxImageUpload>>20)
	default:
		return ""
	}
}
