package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSStore struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	prefix     string
}

func NewOSSStore(endpoint, accessKey, secretKey, bucketName, prefix string) (*OSSStore, error) {
	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// light check; AccessDenied on location is common for scoped keys
	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s)", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSStore{
		bucket:     bkt,
		endpoint:   endpoint,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}, nil
}

func (s *OSSStore) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *OSSStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	objKey := s.objectKey(key)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("private, max-age=3600"),
	}
	if err := s.bucket.PutObject(objKey, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", objKey, err)
	}
	return s.publicURL(objKey), nil
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	return s.bucket.DeleteObject(s.objectKey(key), oss.WithContext(ctx))
}

func (s *OSSStore) publicURL(key string) string {
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}
