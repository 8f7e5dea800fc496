package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fleamarket/internal/utils"
)

// MediaDir is where uploaded images land, served under /media/.
var MediaDir = "web/media"

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidateImage checks the upload by extension and by sniffing the actual
// content type. Returns a form message, empty when the file is acceptable.
func ValidateImage(header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "Only .jpg, .jpeg, .png and .gif images are allowed."
	}

	file, err := header.Open()
	if err != nil {
		return "Could not read the uploaded file."
	}
	defer file.Close()

	// http.DetectContentType needs at most 512 bytes
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "Could not read the uploaded file."
	}
	mime := http.DetectContentType(buf[:n])
	if !allowedImageMIMEs[mime] {
		return "The uploaded file is not a valid image."
	}
	return ""
}

// SaveImage stores the upload under MediaDir and returns the public path.
func SaveImage(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(MediaDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), utils.GenerateRandomCode(6), ext)

	dst, err := os.Create(filepath.Join(MediaDir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return "/media/" + name, nil
}
