package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pngMagic is a minimal PNG signature, enough for content sniffing.
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image1", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["image1"][0]
}

func TestValidateImageAcceptsPNG(t *testing.T) {
	header := makeFileHeader(t, "photo.png", pngMagic)
	if msg := ValidateImage(header); msg != "" {
		t.Errorf("valid png rejected: %s", msg)
	}
}

func TestValidateImageRejectsExtension(t *testing.T) {
	header := makeFileHeader(t, "notes.txt", []byte("hello"))
	if msg := ValidateImage(header); msg == "" {
		t.Error("expected rejection for .txt extension")
	}
}

func TestValidateImageRejectsSpoofedContent(t *testing.T) {
	// Right extension, but the bytes are plain text
	header := makeFileHeader(t, "photo.png", []byte("definitely not an image"))
	if msg := ValidateImage(header); msg == "" {
		t.Error("expected rejection for non-image content")
	}
}
