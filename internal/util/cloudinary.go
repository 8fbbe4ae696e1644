package util

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"lumina/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
	cfg *config.Config
}

// UploadResult carries what the image service needs to persist after an upload
type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Bytes    int64
}

func NewCloudinaryClient(cfg *config.Config) (*CloudinaryClient, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryClient{
		cld: cld,
		cfg: cfg,
	}, nil
}

// UploadImage uploads image bytes to Cloudinary and returns the delivery URL
// plus the public ID needed for later deletion. Dimensions are decoded
// locally so they are available even if the upstream response omits them.
func (c *CloudinaryClient) UploadImage(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	width, height := decodeDimensions(data)

	publicID := uuid.New().String()
	result, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       "lumina/images",
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading to cloudinary: %w", err)
	}

	// Serve through an on-the-fly transformation: auto quality, capped width
	url := strings.Replace(result.SecureURL, "/upload/", "/upload/q_auto,w_1600/", 1)

	res := &UploadResult{
		URL:      url,
		PublicID: result.PublicID,
		Width:    result.Width,
		Height:   result.Height,
		Bytes:    int64(len(data)),
	}
	if res.Width == 0 {
		res.Width, res.Height = width, height
	}
	return res, nil
}

// DeleteImage removes an uploaded image by its public ID
func (c *CloudinaryClient) DeleteImage(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("error deleting from cloudinary: %w", err)
	}
	return nil
}

func decodeDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
