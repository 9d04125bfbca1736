package event

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

const (
	DefaultMaxImageBytes int64 = 2 << 20
	imageKeyPrefix             = "event-images/"
)

// ImageUpload is a raw uploaded file. The content type is sniffed, never
// taken from the client.
type ImageUpload struct {
	Filename string
	Data     []byte
}

var allowedImageTypes = []string{"image/jpeg", "image/png"}

func checkImage(img *ImageUpload, maxBytes int64) error {
	if len(img.Data) == 0 {
		return errors.New("image must not be empty")
	}
	if int64(len(img.Data)) > maxBytes {
		return fmt.Errorf("image may not be greater than %d kilobytes", maxBytes/1024)
	}
	mt := mimetype.Detect(img.Data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return errors.New("image must be a file of type: jpeg, png, jpg")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
		return errors.New("image must be a valid image")
	}
	return nil
}

// storeImage uploads a checked image and returns its key.
func (s *Service) storeImage(ctx context.Context, img *ImageUpload) (*string, error) {
	if img == nil {
		return nil, nil
	}
	mt := mimetype.Detect(img.Data)
	key := imageKeyPrefix + uuid.NewString() + mt.Extension()
	if err := s.images.Put(ctx, key, img.Data, mt.String()); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	return &key, nil
}

// dropImage removes a stored image; failures are only logged.
func (s *Service) dropImage(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.images.Delete(ctx, *key); err != nil {
		zlog.Warn().Err(err).Str("key", *key).Msg("image cleanup failed")
	}
}

// ImageURL resolves a stored key to a public URL.
func (s *Service) ImageURL(key *string) string {
	if key == nil || *key == "" {
		return ""
	}
	return s.images.URL(*key)
}
