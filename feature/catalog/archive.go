package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"esim-catalog/core/provider/esimaccess"
	"esim-catalog/core/storage"

	"github.com/minio/minio-go/v7"
)

// LatestSnapshotKey selects the newest archived snapshot.
const LatestSnapshotKey = "latest"

// Archive stores raw provider snapshots in object storage.
type Archive struct {
	client storage.Client
	bucket string
	region string
	prefix string
	now    func() time.Time
}

// NewArchive creates an archive in the configured bucket and prefix.
func NewArchive(client storage.Client, cfg storage.Config) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: strings.Trim(cfg.SnapshotPrefix, "/"),
		now:    time.Now,
	}
}

// Key returns the object key of a run snapshot: {prefix}/{yyyy/mm/dd}/{runID}.json.
func (a *Archive) Key(runID string, at time.Time) string {
	return path.Join(a.prefix, at.UTC().Format("2006/01/02"), runID+".json")
}

// Store uploads a snapshot and returns its key.
func (a *Archive) Store(ctx context.Context, runID string, raw []byte) (string, error) {
	if err := storage.EnsureBucket(ctx, a.client, a.bucket, a.region); err != nil {
		return "", err
	}

	key := a.Key(runID, a.now())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive snapshot %s: %w", key, err)
	}
	return key, nil
}

// Latest returns the key of the most recently written snapshot.
func (a *Archive) Latest(ctx context.Context) (string, error) {
	var (
		latest   string
		latestAt time.Time
	)
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return "", fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		if latest == "" || obj.LastModified.After(latestAt) || (obj.LastModified.Equal(latestAt) && obj.Key > latest) {
			latest, latestAt = obj.Key, obj.LastModified
		}
	}
	if latest == "" {
		return "", ErrNoSnapshot
	}
	return latest, nil
}

// Load reads and decodes an archived snapshot.
func (a *Archive) Load(ctx context.Context, key string) ([]byte, []esimaccess.Package, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot %s: %w", key, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	packages, err := esimaccess.DecodePackageList(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s: %w", key, err)
	}
	return raw, packages, nil
}

// ArchiveSource replays an archived snapshot instead of calling the provider.
type ArchiveSource struct {
	archive *Archive
	key     string
}

// Source returns a source replaying key. LatestSnapshotKey resolves at fetch time.
func (a *Archive) Source(key string) *ArchiveSource {
	return &ArchiveSource{archive: a, key: key}
}

func (s *ArchiveSource) Name() string { return "snapshot:" + s.key }

func (s *ArchiveSource) Fetch(ctx context.Context) (*Snapshot, error) {
	key := s.key
	if key == LatestSnapshotKey {
		latest, err := s.archive.Latest(ctx)
		if err != nil {
			return nil, err
		}
		key = latest
	}

	raw, packages, err := s.archive.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Packages: packages, Raw: raw}, nil
}
