package services

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/devfolio/devfolio/pkg/response"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// rasterExtensions are the types we can decode and downscale. Anything else
// is written verbatim.
var rasterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var videoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
}

type MediaService struct {
	root string
}

func NewMediaService(root string) *MediaService {
	return &MediaService{root: root}
}

// IsAllowedImage reports whether the filename carries an accepted image
// extension.
func IsAllowedImage(filename string) bool {
	return rasterExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsAllowedVideo reports whether the filename carries an accepted video
// extension.
func IsAllowedVideo(filename string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save ingests an uploaded file into subfolder under the media root and
// returns its relative path ("subfolder/name.ext"). The stored name is a
// random UUID keeping the original extension.
//
// When maxWidth/maxHeight are non-zero and the extension is a known raster
// type, the image is decoded and downscaled to fit the box, preserving aspect
// ratio and never upscaling. A file that cannot be decoded as its declared
// type fails with a media decode error and nothing is written.
func (s *MediaService) Save(file *multipart.FileHeader, subfolder string, maxWidth, maxHeight int) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext

	dir := filepath.Join(s.root, subfolder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if maxWidth > 0 && maxHeight > 0 && rasterExtensions[ext] {
		// Decode fully before touching the filesystem so a corrupt
		// upload never leaves a half-written file behind.
		img, err := imaging.Decode(src, imaging.AutoOrientation(true))
		if err != nil {
			return "", response.NewMediaDecode("file is not a valid image")
		}

		bounds := img.Bounds()
		if bounds.Dx() > maxWidth || bounds.Dy() > maxHeight {
			img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
		}

		if err := imaging.Save(img, dest); err != nil {
			os.Remove(dest)
			return "", err
		}
		return subfolder + "/" + name, nil
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}

	return subfolder + "/" + name, nil
}

// FileURL builds the public URL for an ingested path. Empty in, empty out.
func FileURL(path string) string {
	if path == "" {
		return ""
	}
	return "/uploads/" + path
}
