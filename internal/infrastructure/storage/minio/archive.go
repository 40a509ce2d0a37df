package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

var ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid archive request")

// ArchiveRequest is one rendered export to keep.
type ArchiveRequest struct {
	Kind        string
	Extension   string
	ContentType string
	Data        []byte
	Metadata    map[string]string
}

// ArchiveResult locates a stored export.
type ArchiveResult struct {
	Bucket     string    `json:"bucket"`
	ObjectKey  string    `json:"objectKey"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	URL        string    `json:"url,omitempty"`
	ArchivedAt time.Time `json:"archivedAt"`
}

// ExportArchive stores export artifacts under
// exports/<kind>/<yyyy>/<mm>/<dd>/<uuid>.<ext> and signs a download URL.
type ExportArchive struct {
	client *MinIOClient
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewExportArchive(client *MinIOClient, log logging.Logger) *ExportArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ExportArchive{
		client: client,
		logger: log,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// ObjectKey builds the storage key of an export.
func ObjectKey(kind, ext string, at time.Time, id string) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("exports/%s/%s/%s.%s", kind, at.UTC().Format("2006/01/02"), id, ext)
}

// Store uploads req. A failed presign still returns the stored location.
func (a *ExportArchive) Store(ctx context.Context, req *ArchiveRequest) (*ArchiveResult, error) {
	if req == nil || req.Kind == "" || req.Extension == "" || len(req.Data) == 0 {
		return nil, ErrInvalidRequest
	}
	now := a.now()
	key := ObjectKey(req.Kind, req.Extension, now, a.newID())
	bucket := a.client.Bucket()

	meta := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta["export-kind"] = req.Kind

	info, err := a.client.GetClient().PutObject(ctx, bucket, key, bytes.NewReader(req.Data), int64(len(req.Data)), minio.PutObjectOptions{
		ContentType:  req.ContentType,
		UserMetadata: meta,
	})
	if err != nil {
		a.logger.Error("Export archive upload failed", logging.String("key", key), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to archive export")
	}

	res := &ArchiveResult{
		Bucket:     bucket,
		ObjectKey:  key,
		ETag:       info.ETag,
		Size:       info.Size,
		ArchivedAt: now,
	}
	if url, err := a.client.GeneratePresignedGetURL(ctx, key, 0); err == nil {
		res.URL = url
	} else {
		a.logger.Warn("Presign failed", logging.String("key", key), logging.Err(err))
	}

	a.logger.Info("Export archived",
		logging.String("kind", req.Kind),
		logging.String("key", key),
		logging.Int64("size", res.Size))
	return res, nil
}
