package ps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-git/v6/plumbing/object"
)

// ObjectPutter is the subset of the S3 client the archiver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver exports the committed state of a repository to an S3 bucket.
// Every file reachable from HEAD is uploaded under a key prefix, followed
// by a manifest describing the export.
type Archiver struct {
	persistence *Persistence
	client      ObjectPutter
	bucket      string
}

// ArchiveManifest records what an export contained and which transaction
// it was taken from.
type ArchiveManifest struct {
	Transaction string    `json:"transaction"`
	CreatedAt   time.Time `json:"created_at"`
	Files       []string  `json:"files"`
}

func NewArchiver(persistence *Persistence, client ObjectPutter, bucket string) *Archiver {
	return &Archiver{
		persistence: persistence,
		client:      client,
		bucket:      bucket,
	}
}

// NewS3Client builds an S3 client from the default AWS config chain. Static
// credentials and a custom endpoint (MinIO and friends) are optional.
func NewS3Client(ctx context.Context, region, endpoint, accessKey, secretKey string) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export uploads every file reachable from HEAD to the bucket under the
// given prefix, then writes a manifest at <prefix>/manifest.json.
func (a *Archiver) Export(ctx context.Context, prefix string) (ArchiveManifest, error) {
	if err := a.persistence.ensureInitialized(); err != nil {
		return ArchiveManifest{}, err
	}

	headRef, err := a.persistence.repo.Head()
	if err != nil {
		return ArchiveManifest{}, fmt.Errorf("nothing to archive: %w", err)
	}

	commit, err := a.persistence.repo.CommitObject(headRef.Hash())
	if err != nil {
		return ArchiveManifest{}, fmt.Errorf("failed to get head commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return ArchiveManifest{}, fmt.Errorf("failed to get tree: %w", err)
	}

	manifest := ArchiveManifest{
		Transaction: headRef.Hash().String(),
		CreatedAt:   time.Now(),
	}

	err = tree.Files().ForEach(func(file *object.File) error {
		content, err := file.Contents()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file.Name, err)
		}

		key := path.Join(prefix, file.Name)
		_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader([]byte(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}

		manifest.Files = append(manifest.Files, file.Name)
		return nil
	})
	if err != nil {
		return ArchiveManifest{}, err
	}

	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return ArchiveManifest{}, fmt.Errorf("failed to serialize manifest: %w", err)
	}

	manifestKey := path.Join(prefix, "manifest.json")
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(manifestKey),
		Body:   bytes.NewReader(manifestBytes),
	})
	if err != nil {
		return ArchiveManifest{}, fmt.Errorf("failed to upload manifest: %w", err)
	}

	return manifest, nil
}
