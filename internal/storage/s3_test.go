package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"alcyxob/fit-platform/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		cfg  config.S3Config
		want string
	}{
		{config.S3Config{}, ""},
		{config.S3Config{Endpoint: "localhost:9000"}, "http://localhost:9000"},
		{config.S3Config{Endpoint: "minio.local", UseSSL: true}, "https://minio.local"},
		{config.S3Config{Endpoint: "https://s3.example.com", UseSSL: false}, "https://s3.example.com"},
	}
	for _, tt := range tests {
		if got := endpointURL(tt.cfg); got != tt.want {
			t.Errorf("endpointURL(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("head: %w", &types.NotFound{})) {
		t.Error("wrapped types.NotFound not recognised")
	}
	if !isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}) {
		t.Error("NoSuchKey not recognised")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Error("AccessDenied treated as not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Error("plain error treated as not found")
	}
}

func TestPresignedURLsAreSignedForKey(t *testing.T) {
	st, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		BucketName:      "media",
	}, nil)
	if err != nil {
		t.Fatalf("NewS3Storage: %v", err)
	}

	put, err := st.GeneratePresignedUploadURL(context.Background(), "courses/abc/video.mp4", "video/mp4", 0)
	if err != nil {
		t.Fatalf("upload url: %v", err)
	}
	if !strings.HasPrefix(put, "http://localhost:9000/media/courses/abc/video.mp4?") {
		t.Errorf("unexpected upload url %q", put)
	}
	if !strings.Contains(put, "X-Amz-Signature=") {
		t.Errorf("upload url is not signed: %q", put)
	}

	get, err := st.GeneratePresignedDownloadURL(context.Background(), "courses/abc/video.mp4", 0)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.Contains(get, "X-Amz-Expires=900") {
		t.Errorf("default expiry not applied: %q", get)
	}
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	if _, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"}, nil); err == nil {
		t.Fatal("expected error without bucket")
	}
}
