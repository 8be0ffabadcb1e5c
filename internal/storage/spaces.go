// Package storage implements the object-storage client against an
// S3-compatible DigitalOcean Spaces endpoint.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	// Endpoint overrides the derived regional endpoint when set.
	Endpoint string
}

type Client struct {
	s3     *s3.Client
	bucket string
	region string
}

type UploadOptions struct {
	Folder      string
	ContentType string
	MakePublic  bool
}

type UploadResult struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Region)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.Region = cfg.Region
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Client{s3: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (c *Client) Upload(ctx context.Context, body io.Reader, name string, opts UploadOptions) (*UploadResult, error) {
	key := url.PathEscape(name)
	if opts.Folder != "" {
		key = opts.Folder + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts.MakePublic {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	return &UploadResult{
		URL:    fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", c.bucket, c.region, key),
		Key:    key,
		Bucket: c.bucket,
	}, nil
}

// Delete removes the object behind fileURL. With suppressErrors the failure
// is logged and swallowed so cleanup never blocks record deletion.
func (c *Client) Delete(ctx context.Context, fileURL string, suppressErrors bool) error {
	key, err := c.keyFromURL(fileURL)
	if err == nil {
		_, err = c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		})
	}
	if err != nil {
		if suppressErrors {
			zap.L().Warn("storage delete failed", zap.String("url", fileURL), zap.Error(err))
			return nil
		}
		return fmt.Errorf("delete %s: %w", fileURL, err)
	}
	return nil
}

func (c *Client) Exists(ctx context.Context, fileURL string) (bool, error) {
	key, err := c.keyFromURL(fileURL)
	if err != nil {
		return false, err
	}

	_, err = c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Client) keyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("malformed storage url %q: %w", fileURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("storage url %q has no object key", fileURL)
	}
	return key, nil
}
