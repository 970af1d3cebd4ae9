// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// media uploads. Images go to a public-read bucket and are served
// directly; documents go to a private bucket and are handed out through
// short-lived pre-signed URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DocumentURLExpiry is how long a pre-signed document link stays valid.
const DocumentURLExpiry = 15 * time.Minute

// Object is a single file to be written to a bucket.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Client wraps an S3 client for media operations on two buckets.
type Client struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	publicBucket  string
	privateBucket string
	endpoint      string
	publicURL     string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, publicBucket, privateBucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if publicBucket == "" || privateBucket == "" {
		return nil, fmt.Errorf("storage: both bucket names are required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:            s3Client,
		presigner:     s3.NewPresignClient(s3Client),
		publicBucket:  publicBucket,
		privateBucket: privateBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}, nil
}

// BucketFor picks the bucket for a MIME type: images are public, the rest private.
func (c *Client) BucketFor(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return c.publicBucket
	}
	return c.privateBucket
}

// Put writes objects to bucket. Objects in the public bucket get a
// public-read ACL. On failure the objects already written are removed.
func (c *Client) Put(ctx context.Context, bucket string, objects ...Object) error {
	written := make([]string, 0, len(objects))
	for _, obj := range objects {
		input := &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(obj.Key),
			Body:          bytes.NewReader(obj.Data),
			ContentLength: aws.Int64(int64(len(obj.Data))),
			ContentType:   aws.String(obj.ContentType),
		}
		if bucket == c.publicBucket {
			input.ACL = s3types.ObjectCannedACLPublicRead
		}
		if _, err := c.s3.PutObject(ctx, input); err != nil {
			if len(written) > 0 {
				_ = c.Remove(ctx, bucket, written...)
			}
			return fmt.Errorf("s3 upload %s/%s: %w", bucket, obj.Key, err)
		}
		written = append(written, obj.Key)
	}
	return nil
}

// Remove deletes keys from bucket in a single request. Empty keys are ignored.
func (c *Client) Remove(ctx context.Context, bucket string, keys ...string) error {
	ids := make([]s3types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			ids = append(ids, s3types.ObjectIdentifier{Key: aws.String(k)})
		}
	}
	if len(ids) == 0 {
		return nil
	}

	_, err := c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", bucket, err)
	}
	return nil
}

// URL returns a link to key in bucket. Public objects get a stable URL,
// private ones a pre-signed URL valid for DocumentURLExpiry.
func (c *Client) URL(ctx context.Context, bucket, key string) (string, error) {
	if bucket == c.publicBucket {
		return c.fileURL(key), nil
	}
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(DocumentURLExpiry))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// fileURL uses the configured public URL if set, otherwise builds a
// path-style URL.
func (c *Client) fileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.publicBucket + "/" + key
}
