package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/storage"
	"github.com/google/uuid"
)

const (
	MaxImageBytes       = 5 << 20
	MaxImagesPerListing = 8

	// MaxImagesPerRequest is how many full-size files one create request may
	// carry. It exceeds MaxImagesPerListing so an oversized batch still
	// reaches Upload and the extra files are reported as ErrTooManyImages.
	MaxImagesPerRequest = 12
	// MaxUploadBodyBytes bounds a create request: the images plus room for
	// the form fields.
	MaxUploadBodyBytes = MaxImagesPerRequest*MaxImageBytes + 1<<20
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageFile is one file of a multipart upload. Open may be called more than
// once.
type ImageFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type RejectedImage struct {
	Name   string
	Reason error
}

// UploadResult lists the public URLs of stored files in input order, their
// object keys, and the files that were skipped.
type UploadResult struct {
	URLs     []string
	Keys     []string
	Rejected []RejectedImage
}

type ImageService struct {
	store storage.ObjectStore
}

func NewImageService(store storage.ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// Upload validates files and stores the accepted ones under
// "<userID>/<random>.<ext>". Invalid files are reported in Rejected without
// stopping the batch. Uploads run one at a time; the first storage failure
// stops the batch, removes what the batch already stored, and is returned
// wrapped in ErrImageUpload.
func (s *ImageService) Upload(ctx context.Context, userID uuid.UUID, files []ImageFile) (*UploadResult, error) {
	result := &UploadResult{URLs: []string{}, Keys: []string{}}

	type accepted struct {
		file        ImageFile
		contentType string
	}
	queue := make([]accepted, 0, MaxImagesPerListing)
	for _, f := range files {
		contentType, err := checkImage(f)
		if err == nil && len(queue) >= MaxImagesPerListing {
			err = ErrTooManyImages
		}
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedImage{Name: f.Name, Reason: err})
			metrics.ImageUploads.WithLabelValues("rejected").Inc()
			continue
		}
		queue = append(queue, accepted{file: f, contentType: contentType})
	}

	for _, a := range queue {
		if err := ctx.Err(); err != nil {
			s.abort(ctx, result, nil)
			return result, fmt.Errorf("%w: %w", ErrImageUpload, err)
		}
		key := fmt.Sprintf("%s/%s.%s", userID, uuid.New(), imageExtensions[a.contentType])
		if err := s.put(ctx, key, a.file, a.contentType); err != nil {
			metrics.ImageUploads.WithLabelValues("failed").Inc()
			slog.Error("image upload failed", "user_id", userID.String(), "action", "upload_image", "error", err)
			// a failed put may still have left a partial object behind
			s.abort(ctx, result, []string{key})
			return result, fmt.Errorf("%w: %s: %w", ErrImageUpload, a.file.Name, err)
		}
		metrics.ImageUploads.WithLabelValues("stored").Inc()
		result.URLs = append(result.URLs, s.store.PublicURL(key))
		result.Keys = append(result.Keys, key)
	}
	return result, nil
}

// Remove deletes stored objects, continuing past failures. It is used when
// the listing the images belong to could not be created.
func (s *ImageService) Remove(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Warn("image cleanup failed", "action", "remove_image", "key", key, "error", err)
			errs = append(errs, err)
			continue
		}
		metrics.ImageUploads.WithLabelValues("removed").Inc()
	}
	return errors.Join(errs...)
}

// abort removes everything the batch stored and empties the result. Cleanup
// runs even when ctx is already cancelled.
func (s *ImageService) abort(ctx context.Context, result *UploadResult, extra []string) {
	_ = s.Remove(context.WithoutCancel(ctx), append(result.Keys, extra...))
	result.URLs = []string{}
	result.Keys = []string{}
}

func (s *ImageService) put(ctx context.Context, key string, f ImageFile, contentType string) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return s.store.Upload(ctx, key, r, f.Size, contentType)
}

// checkImage returns the normalised MIME type of an acceptable file.
func checkImage(f ImageFile) (string, error) {
	if f.Size > MaxImageBytes {
		return "", ErrImageTooLarge
	}
	contentType := normaliseMIME(f.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		sniffed, err := sniff(f)
		if err != nil {
			return "", err
		}
		contentType = sniffed
	}
	if _, ok := imageExtensions[contentType]; !ok {
		return "", ErrImageType
	}
	return contentType, nil
}

func sniff(f ImageFile) (string, error) {
	if f.Open == nil {
		return "", ErrImageType
	}
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	return normaliseMIME(http.DetectContentType(head[:n])), nil
}

func normaliseMIME(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
