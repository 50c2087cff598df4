// Package media uploads post images to Cloudinary and hands back CDN URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/devverse/devverse-backend/internal/config"
)

// Uploader wraps the Cloudinary client.
type Uploader struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewUploader builds an Uploader from CLOUDINARY_URL credentials.
func NewUploader(cfg config.MediaConfig) (*Uploader, error) {
	client, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Uploader{client: client, folder: cfg.UploadFolder}, nil
}

// Upload pushes an image stream to Cloudinary and returns its secure URL.
// name is a hint only; Cloudinary assigns the final public id.
func (u *Uploader) Upload(ctx context.Context, name string, file io.Reader) (string, error) {
	res, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:           u.folder,
		FilenameOverride: name,
		ResourceType:     "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Destroy removes the asset behind a secure URL previously returned by
// Upload. URLs that do not look like Cloudinary delivery URLs are ignored.
// Missing assets are not an error, Cloudinary reports those as "not found"
// in the result body.
func (u *Uploader) Destroy(ctx context.Context, assetURL string) error {
	publicID := publicIDFromURL(assetURL)
	if publicID == "" {
		return nil
	}
	_, err := u.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy image: %w", err)
	}
	return nil
}

var deliveryVersion = regexp.MustCompile(`^v\d+$`)

// publicIDFromURL recovers the public id (folder/name, no extension) from a
// delivery URL like
// https://res.cloudinary.com/demo/image/upload/v15709/devverse/pic.png.
func publicIDFromURL(assetURL string) string {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, part := range parts {
		if part != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 0 && deliveryVersion.MatchString(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return ""
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id))
	}
	return ""
}
