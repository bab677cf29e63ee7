package config

import (
	"context"
	"log"
	"os"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"civicpulse-be/gateway"
)

var (
	objectStore *gateway.S3Store
	storeOnce   sync.Once
)

// ConnectObjectStorage initializes the S3-backed object store for issue images
func ConnectObjectStorage() *gateway.S3Store {
	storeOnce.Do(func() {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "ap-south-1"
		}

		cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
		if err != nil {
			log.Fatalf("Failed to load AWS configuration: %v", err)
		}

		objectStore = gateway.NewS3Store(s3.NewFromConfig(cfg), region)
	})

	return objectStore
}

// ImageBucket returns the bucket holding issue and resolution photos
func ImageBucket() string {
	if bucket := os.Getenv("S3_IMAGE_BUCKET"); bucket != "" {
		return bucket
	}
	return "issue-images"
}
