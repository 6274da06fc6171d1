// Package storage keeps uploaded files (scholarship documents) either on the
// local disk or in an Aliyun OSS bucket.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"edudbt_backend/internals/configs"
)

type BlobStore interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// New picks OSS when the bucket credentials are configured, local disk otherwise.
func New(cfg *configs.Config) (BlobStore, error) {
	if cfg.OSSEndpoint != "" && cfg.OSSAccessKey != "" && cfg.OSSSecretKey != "" && cfg.OSSBucket != "" {
		return NewOSSStore(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket, cfg.OSSPublicPrefix)
	}
	log.Printf("[STORAGE] OSS not configured, storing uploads in %s", cfg.UploadDir)
	return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
}

// BuildObjectKey: <prefix>/<slug>_<yyyymmdd_hhmmss>_<rand6><ext>
func BuildObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = sanitize(base)
	if base == "" {
		base = "file"
	}
	key := fmt.Sprintf("%s_%s_%s%s", base, time.Now().UTC().Format("20060102_150405"), randHex(3), ext)
	if p := strings.Trim(prefix, "/"); p != "" {
		key = p + "/" + key
	}
	return key
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}

func randHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06x", time.Now().UnixNano()&0xffffff)
	}
	return hex.EncodeToString(b)
}
