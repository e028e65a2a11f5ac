package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const contentTypeJSON = "application/json"

type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Sink struct {
	client PutObjectAPI
	bucket string
}

func NewS3Sink(client PutObjectAPI, bucket string) (Sink, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client cannot be nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("report bucket cannot be empty")
	}
	return &s3Sink{client: client, bucket: bucket}, nil
}

func (s *s3Sink) Name() string {
	return "s3"
}

func (s *s3Sink) Primary() bool {
	return true
}

func (s *s3Sink) Write(ctx context.Context, doc *Document) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(doc.Key),
		Body:        bytes.NewReader(doc.Body),
		ContentType: aws.String(contentTypeJSON),
		Metadata:    doc.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, doc.Key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, doc.Key), nil
}
