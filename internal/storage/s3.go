// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps uploaded résumé files in an S3-compatible bucket.
// It wraps the AWS SDK v2 with path-style addressing so MinIO, Ceph and
// Hetzner endpoints work alongside AWS.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"portfolio/internal/slug"
)

// ResumePrefix is the key prefix of uploaded résumés.
const ResumePrefix = "resumes/"

// Config holds the bucket connection settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicURL is an optional CDN or custom domain serving the bucket.
	PublicURL string
}

// Client stores objects in one public-read bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string
}

// New creates the client. It returns (nil, nil) when endpoint, bucket or
// credentials are empty so the server can start without uploads.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, nil
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("storage: region is required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        client,
		bucket:    cfg.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// ResumeKey builds a collision-free key that keeps a readable form of the
// original name and its lowercased extension.
func ResumeKey(filename string) string {
	ext := path.Ext(filename)
	key := ResumePrefix + uuid.NewString()
	if name := slug.Generate(strings.TrimSuffix(filename, ext)); name != "" {
		key += "-" + name
	}
	return key + strings.ToLower(ext)
}

// Upload stores body under key with public-read ACL and returns its URL.
// filename is sent as the download name.
func (c *Client) Upload(ctx context.Context, key, filename, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(c.bucket),
		Key:                aws.String(key),
		Body:               body,
		ContentLength:      aws.Int64(size),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", filename)),
		ACL:                s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// FileURL returns the public URL of key.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// KeyFromURL reverses FileURL. It reports false for URLs that do not point
// into this bucket.
func (c *Client) KeyFromURL(rawURL string) (string, bool) {
	if c.publicURL != "" {
		if key, ok := strings.CutPrefix(rawURL, c.publicURL+"/"); ok {
			return key, true
		}
	}
	if key, ok := strings.CutPrefix(rawURL, c.endpoint+"/"+c.bucket+"/"); ok {
		return key, true
	}
	return "", false
}
