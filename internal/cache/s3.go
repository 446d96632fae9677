// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Storage.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage keeps the store as a single JSON object in S3 so that separate
// build hosts can share one cache.
type S3Storage struct {
	Client S3API
	Bucket string
	Key    string
}

// NewS3Storage returns an S3Storage for bucket/key.
func NewS3Storage(client S3API, bucket, key string) *S3Storage {
	return &S3Storage{Client: client, Bucket: bucket, Key: key}
}

// Load fetches the object. A missing object is an empty store.
func (s *S3Storage) Load(ctx context.Context) (map[string]Entry, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", s, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s, err)
	}
	return decodeEntries(b)
}

// Save overwrites the object with the full store.
func (s *S3Storage) Save(ctx context.Context, entries map[string]Entry) error {
	b, err := encodeEntries(entries)
	if err != nil {
		return err
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", s, err)
	}
	return nil
}

func (s *S3Storage) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}
