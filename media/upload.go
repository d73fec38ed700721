package media

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// MaxFileSize is the upload cap, 50 MB.
const MaxFileSize = 50 << 20

var allowedFormats = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "svg": true,
	"webp": true, "mp4": true, "webm": true, "ogg": true, "mov": true,
}

// UploadError is a media rejection that maps directly to an HTTP status:
// 413 for oversized files, 400 for everything else.
type UploadError struct {
	Status int
	Reason string
}

func (e *UploadError) Error() string { return e.Reason }

// Result describes a stored media object: its serving URL and the opaque
// handle needed to delete it later.
type Result struct {
	URL      string
	PublicID string
	IsVideo  bool
}

type Service interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*Result, error)
	Destroy(ctx context.Context, publicID string, isVideo bool) error
}

// Validate checks size and format before any bytes leave the process.
func Validate(header *multipart.FileHeader) error {
	if header.Size > MaxFileSize {
		return &UploadError{Status: http.StatusRequestEntityTooLarge, Reason: "file exceeds the 50 MB limit"}
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !allowedFormats[ext] {
		return &UploadError{Status: http.StatusBadRequest, Reason: fmt.Sprintf("unsupported file format %q", ext)}
	}
	return nil
}

// IsVideo reports whether the declared content type routes the file to the
// video fields rather than the image fields.
func IsVideo(header *multipart.FileHeader) bool {
	return strings.HasPrefix(header.Header.Get("Content-Type"), "video/")
}

// CloudinaryUploader implements Service against Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*Result, error) {
	if err := Validate(header); err != nil {
		return nil, err
	}
	isVideo := IsVideo(header)

	params := uploader.UploadParams{
		Folder:       u.folder,
		PublicID:     uuid.NewString(),
		ResourceType: "auto",
	}
	if !isVideo {
		// Downscale to fit 800x600, never upscale.
		params.Transformation = "c_limit,w_800,h_600"
	}

	res, err := u.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, &UploadError{Status: http.StatusBadRequest, Reason: "media upload failed"}
	}

	return &Result{URL: res.SecureURL, PublicID: res.PublicID, IsVideo: isVideo}, nil
}

func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID string, isVideo bool) error {
	resourceType := "image"
	if isVideo {
		resourceType = "video"
	}
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	return err
}
