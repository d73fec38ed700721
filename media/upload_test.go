package media

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
)

func fileHeader(filename, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: filename, Header: h, Size: size}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name       string
		header     *multipart.FileHeader
		wantStatus int // 0 means valid
	}{
		{name: "jpeg ok", header: fileHeader("pic.jpg", "image/jpeg", 1024)},
		{name: "uppercase extension ok", header: fileHeader("PIC.PNG", "image/png", 1024)},
		{name: "mp4 ok", header: fileHeader("clip.mp4", "video/mp4", 1<<20)},
		{name: "exactly at limit", header: fileHeader("big.webm", "video/webm", MaxFileSize)},
		{name: "over limit", header: fileHeader("huge.mp4", "video/mp4", MaxFileSize+1), wantStatus: http.StatusRequestEntityTooLarge},
		{name: "executable rejected", header: fileHeader("evil.exe", "application/octet-stream", 1024), wantStatus: http.StatusBadRequest},
		{name: "no extension rejected", header: fileHeader("noext", "image/png", 1024), wantStatus: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.header)
			if tc.wantStatus == 0 {
				if err != nil {
					t.Fatalf("Validate(%q) = %v, want nil", tc.header.Filename, err)
				}
				return
			}

			var ue *UploadError
			if !errors.As(err, &ue) {
				t.Fatalf("Validate(%q) = %v, want *UploadError", tc.header.Filename, err)
			}
			if ue.Status != tc.wantStatus {
				t.Errorf("Validate(%q) status = %d, want %d", tc.header.Filename, ue.Status, tc.wantStatus)
			}
		})
	}
}

func TestIsVideo(t *testing.T) {
	if !IsVideo(fileHeader("clip.mp4", "video/mp4", 1)) {
		t.Error("video/mp4 should classify as video")
	}
	if IsVideo(fileHeader("pic.gif", "image/gif", 1)) {
		t.Error("image/gif should not classify as video")
	}
	if IsVideo(fileHeader("mystery.mp4", "", 1)) {
		t.Error("missing content type should not classify as video")
	}
}
