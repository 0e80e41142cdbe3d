package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"peer-feedback/core/storage"

	"github.com/minio/minio-go/v7"
)

// Config controls the event archive.
type Config struct {
	// Enabled turns archiving of raw webhook bodies on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object key prefix for archived events.
	Prefix string `mapstructure:"prefix" default:"identity-events"`
}

// Archive stores raw identity webhooks in object storage so they can be replayed.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// New creates an archive writing under prefix in bucket.
func New(client storage.Client, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ObjectKey returns the key an event delivered at t is archived under.
// Keys sort chronologically: <prefix>/YYYY/MM/DD/<unixnano>-<deliveryID>.json.
func (a *Archive) ObjectKey(t time.Time, deliveryID string) string {
	t = t.UTC()
	id := unsafeKeyChars.ReplaceAllString(deliveryID, "_")
	if id == "" {
		id = "unknown"
	}
	return path.Join(a.prefix, t.Format("2006/01/02"), fmt.Sprintf("%019d-%s.json", t.UnixNano(), id))
}

// Put archives one raw webhook body and returns its object key.
func (a *Archive) Put(ctx context.Context, deliveryID string, body []byte) (string, error) {
	key := a.ObjectKey(a.now(), deliveryID)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive event %s: %w", key, err)
	}
	return key, nil
}

// List returns the archived object keys under sub (relative to the archive
// prefix, e.g. "2026/10"), in delivery order.
func (a *Archive) List(ctx context.Context, sub string) ([]string, error) {
	prefix := a.prefix + "/"
	if sub = strings.Trim(sub, "/"); sub != "" {
		prefix = path.Join(a.prefix, sub)
	}

	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived events: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// Get reads one archived body.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get archived event %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived event %s: %w", key, err)
	}
	return data, nil
}

// DeliveryID extracts the delivery id from an archive key.
func DeliveryID(key string) string {
	base := strings.TrimSuffix(path.Base(key), ".json")
	if i := strings.IndexByte(base, '-'); i >= 0 {
		return base[i+1:]
	}
	return base
}
