package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

func InitS3() {
	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// S3Object describes one uploaded blob.
type S3Object struct {
	Key         string
	URL         string
	ContentType string
	SizeBytes   int64
}

// UploadBase64ToS3 stores a data-URI payload ("data:<mime>;base64,<data>")
// under keyPrefix and returns the object's public URL via CloudFront.
func UploadBase64ToS3(base64Data, keyPrefix string) (*S3Object, error) {
	parts := strings.Split(base64Data, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid base64 payload")
	}
	meta := parts[0]
	data := parts[1]

	// Detect content type from the data-URI header
	mediaType := strings.SplitN(meta, ":", 2)[1]        // "application/pdf;base64"
	contentType := strings.SplitN(mediaType, ";", 2)[0] // "application/pdf"

	ext := extensionFor(contentType)

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %v", err)
	}

	key := fmt.Sprintf("%s/%d%s", strings.Trim(keyPrefix, "/"), time.Now().UnixNano(), ext)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %v", err)
	}

	cfURL := os.Getenv("CLOUDFRONT_URL")
	return &S3Object{
		Key:         key,
		URL:         fmt.Sprintf("%s/%s", cfURL, key),
		ContentType: contentType,
		SizeBytes:   int64(len(raw)),
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "application/pdf":
		return ".pdf"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 {
		return "." + parts[1]
	}
	return ""
}
