// Package filemgr stores uploaded product imagery under static/uploads
// and produces web-sized thumbnails.
package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

type EntityType string
type PictureType string

const (
	EntityProduct EntityType = "product"

	PicPhoto PictureType = "photo"
	PicThumb PictureType = "thumb"
)

const maxUploadSize = 10 << 20

var (
	allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	allowedMIMEs      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// ResolvePath maps an entity and picture type to its upload directory.
func ResolvePath(entity EntityType, picType PictureType) string {
	return filepath.Join("static", "uploads", strings.ToLower(string(entity)), string(picType))
}

func isExtensionAllowed(ext string) bool {
	for _, a := range allowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

func isMIMEAllowed(mimeType string) bool {
	for _, a := range allowedMIMEs {
		if mimeType == a {
			return true
		}
	}
	return false
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

func ensureSafeFilename(name, ext string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		return uuid.New().String() + ext
	}
	return name + ext
}

// saveValidated writes an already-read image buffer to destDir after
// extension and MIME checks.
func saveValidated(buf []byte, header *multipart.FileHeader, destDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext) {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	mimeType := http.DetectContentType(buf[:min(len(buf), 512)])
	if !isMIMEAllowed(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	if len(buf) > maxUploadSize {
		return "", ErrFileTooLarge
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	filename := uuid.New().String() + ext
	fullPath := filepath.Join(destDir, filename)
	if err := os.WriteFile(fullPath, buf, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", fullPath, err)
	}
	return filename, nil
}

// SaveImageWithThumb saves the original image and a resized thumbnail,
// returning both stored filenames.
func SaveImageWithThumb(file multipart.File, header *multipart.FileHeader, entity EntityType, thumbWidth int) (string, string, error) {
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", "", fmt.Errorf("decode image %q: %w", header.Filename, err)
	}
	if err := validateDimensions(img, 3000, 3000); err != nil {
		return "", "", err
	}

	origName, err := saveValidated(buf, header, ResolvePath(entity, PicPhoto))
	if err != nil {
		return "", "", err
	}

	thumbImg := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbName := strings.TrimSuffix(origName, filepath.Ext(origName)) + ".jpg"
	thumbDir := ResolvePath(entity, PicThumb)
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return origName, "", fmt.Errorf("mkdir %s: %w", thumbDir, err)
	}

	out, err := os.Create(filepath.Join(thumbDir, thumbName))
	if err != nil {
		return origName, "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumbImg, &jpeg.Options{Quality: 85}); err != nil {
		return origName, "", fmt.Errorf("encode thumbnail: %w", err)
	}

	return origName, thumbName, nil
}

// SaveFormImages saves every file under formKey, returning stored names.
func SaveFormImages(form *multipart.Form, formKey string, entity EntityType) ([]string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		return nil, fmt.Errorf("missing required file: %s", formKey)
	}

	var saved []string
	for _, hdr := range files {
		file, err := hdr.Open()
		if err != nil {
			return saved, fmt.Errorf("open %s: %w", hdr.Filename, err)
		}
		name, _, err := SaveImageWithThumb(file, hdr, entity, 320)
		if err != nil {
			return saved, fmt.Errorf("save %s: %w", hdr.Filename, err)
		}
		saved = append(saved, name)
	}
	return saved, nil
}

// Remove deletes a stored image and its thumbnail if present.
func Remove(entity EntityType, fileName string) error {
	clean := ensureSafeFilename(fileName, filepath.Ext(fileName))
	if err := os.Remove(filepath.Join(ResolvePath(entity, PicPhoto), clean)); err != nil && !os.IsNotExist(err) {
		return err
	}
	thumb := strings.TrimSuffix(clean, filepath.Ext(clean)) + ".jpg"
	if err := os.Remove(filepath.Join(ResolvePath(entity, PicThumb), thumb)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func validateDimensions(img image.Image, maxWidth, maxHeight int) error {
	bounds := img.Bounds()
	if bounds.Dx() > maxWidth || bounds.Dy() > maxHeight {
		return fmt.Errorf("image dimensions %dx%d exceed allowed maximum %dx%d", bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	}
	return nil
}
