// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contentstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/luxfi/assetfactory/pkg/constants"
)

// multipartThreshold is the payload size above which uploads go through
// the multipart uploader.
const multipartThreshold = 16 * 1024 * 1024

// s3Store uploads to AWS S3 and S3-compatible stores.
type s3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
}

func newS3Store(ctx context.Context, opts Options) (*s3Store, error) {
	var loadOpts []func(*config.LoadOptions) error

	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	// Explicit credentials take precedence
	creds := opts.Credentials
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				creds.AccessKeyID,
				creds.SecretAccessKey,
				creds.SessionToken,
			),
		))
	} else if creds.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(creds.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if creds.RoleARN != "" {
		stsClient := sts.NewFromConfig(awsCfg)
		awsCfg.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, creds.RoleARN))
	}

	var s3Opts []func(*s3.Options)
	if opts.Endpoint != "" {
		// custom endpoints (MinIO, R2) want path style addressing
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &s3Store{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.Concurrency = 4
		}),
	}, nil
}

func (s *s3Store) put(ctx context.Context, data []byte, opts Options) (Locator, error) {
	if opts.Bucket == "" {
		return Locator{}, ErrMissingBucket
	}
	key := ContentKey(data)
	contentType := opts.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	var err error
	if len(data) > multipartThreshold {
		_, err = s.uploader.Upload(ctx, input)
	} else {
		_, err = s.client.PutObject(ctx, input)
	}
	if err != nil {
		return Locator{}, err
	}
	return Locator{Scheme: constants.S3Scheme, Address: opts.Bucket + "/" + key}, nil
}
