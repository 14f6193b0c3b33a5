package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sjperalta/dealership-api/internal/storage"
	"golang.org/x/image/webp"
)

// Thumbnail sizes
const (
	vehicleThumbWidth  = 480
	vehicleThumbHeight = 320
	maxImageSide       = 2400
)

// ImageService validates uploads and writes images and thumbnails to storage
type ImageService struct {
	storage  *storage.LocalStorage
	maxBytes int64
}

func NewImageService(store *storage.LocalStorage, maxBytes int64) *ImageService {
	return &ImageService{storage: store, maxBytes: maxBytes}
}

// StoredImage holds the keys of a saved image
type StoredImage struct {
	Key          string `json:"key"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Save validates data, stores the original under prefix and, when thumb is
// set, a cropped JPEG thumbnail next to it.
func (s *ImageService) Save(data []byte, contentType, prefix string, thumb bool) (*StoredImage, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: el archivo supera %d MB", ErrInvalidImage, s.maxBytes/(1024*1024))
	}
	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: formato no soportado (solo JPG, PNG o WEBP)", ErrInvalidImage)
	}

	img, err := decodeImage(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Oversized photos are scaled down and re-encoded; others are kept as uploaded.
	bounds := img.Bounds()
	original := data
	if bounds.Dx() > maxImageSide || bounds.Dy() > maxImageSide {
		resized := imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)
		if ext == ".webp" {
			ext = ".jpg"
		}
		if original, err = encodeImage(resized, ext); err != nil {
			return nil, err
		}
	}

	stored := &StoredImage{Key: storage.NewKey(prefix, ext)}
	if err := s.storage.Put(stored.Key, original); err != nil {
		return nil, err
	}
	stored.URL = s.storage.URL(stored.Key)

	if thumb {
		thumbImg := imaging.Fill(img, vehicleThumbWidth, vehicleThumbHeight, imaging.Center, imaging.Lanczos)
		thumbData, err := encodeImage(thumbImg, ".jpg")
		if err != nil {
			_ = s.storage.Delete(stored.Key)
			return nil, err
		}
		stored.ThumbnailKey = strings.TrimSuffix(stored.Key, ext) + "_thumb.jpg"
		if err := s.storage.Put(stored.ThumbnailKey, thumbData); err != nil {
			_ = s.storage.Delete(stored.Key)
			return nil, err
		}
		stored.ThumbnailURL = s.storage.URL(stored.ThumbnailKey)
	}

	return stored, nil
}

// Delete removes an image and, when present, its thumbnail
func (s *ImageService) Delete(key string) error {
	if key == "" {
		return nil
	}
	if err := s.storage.Delete(key); err != nil {
		return err
	}
	if i := strings.LastIndex(key, "."); i > 0 {
		_ = s.storage.Delete(key[:i] + "_thumb.jpg")
	}
	return nil
}

// URL returns the public URL of a stored key
func (s *ImageService) URL(key string) string {
	return s.storage.URL(key)
}

func decodeImage(data []byte, ext string) (image.Image, error) {
	if ext == ".webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// encodeImage writes PNG or JPEG.
func encodeImage(img image.Image, ext string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if ext == ".png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("error al guardar imagen: %w", err)
	}
	return buf.Bytes(), nil
}
