package gcs

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarMirror copies profile images into a bucket so clients can load
// them by URL.
type AvatarMirror struct {
	Client *storage.Client
	Bucket string
}

func NewAvatarMirror(client *storage.Client, bucket string) *AvatarMirror {
	return &AvatarMirror{Client: client, Bucket: bucket}
}

// ObjectPath returns avatars/<account>/<random><ext>.
func ObjectPath(accountID, contentType string) string {
	return path.Join("avatars", accountID, uuid.NewString()+extensions[contentType])
}

func (m *AvatarMirror) Mirror(ctx context.Context, accountID string, avatar entity.Avatar) (string, error) {
	return helpers.UploadObject(ctx, m.Client, m.Bucket, ObjectPath(accountID, avatar.ContentType), avatar.ContentType, avatar.Data)
}
