package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
)

// Target stores serialized store snapshots.
type Target interface {
	// Name identifies the target in logs, metrics and notifications.
	Name() string
	Write(ctx context.Context, name string, payload []byte) error
}

// FileTarget writes each snapshot to its own file in Dir.
type FileTarget struct {
	Dir string
}

// NewFileTarget creates dir when missing.
func NewFileTarget(dir string) (*FileTarget, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &FileTarget{Dir: dir}, nil
}

func (t *FileTarget) Name() string { return "file:" + t.Dir }

// Write stores the payload atomically through a temp file and rename.
func (t *FileTarget) Write(ctx context.Context, name string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(t.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close backup file: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(t.Dir, name))
}

// SQLTarget inserts snapshots into the store_backups table.
type SQLTarget struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLTarget wraps an open database; the schema must already exist.
func NewSQLTarget(db *sqlx.DB) *SQLTarget {
	return &SQLTarget{db: db, now: time.Now}
}

func (t *SQLTarget) Name() string { return "sql:" + t.db.DriverName() }

func (t *SQLTarget) Write(ctx context.Context, name string, payload []byte) error {
	query := t.db.Rebind(`INSERT INTO store_backups (name, payload, size_bytes, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := t.db.ExecContext(ctx, query, name, string(payload), len(payload), t.now().UTC()); err != nil {
		return fmt.Errorf("failed to insert backup %s: %w", name, err)
	}
	return nil
}

// StoredBackup is one row of the store_backups table.
type StoredBackup struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Payload   string    `db:"payload"`
	SizeBytes int64     `db:"size_bytes"`
	CreatedAt time.Time `db:"created_at"`
}

// Latest returns the most recent backup row.
func (t *SQLTarget) Latest(ctx context.Context) (*StoredBackup, error) {
	var row StoredBackup
	query := `SELECT id, name, payload, size_bytes, created_at FROM store_backups ORDER BY id DESC LIMIT 1`
	if err := t.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to read latest backup: %w", err)
	}
	return &row, nil
}

// S3Config holds the bucket parameters of an S3 (or MinIO) backup target.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	Prefix          string
	AccessKeyID     string // optional; default credential chain otherwise
	SecretAccessKey string
	PathStyle       bool
}

// S3Target uploads snapshots as objects under Prefix.
type S3Target struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Target builds the S3 client from cfg.
func NewS3Target(ctx context.Context, cfg S3Config) (*S3Target, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Target{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (t *S3Target) Name() string { return "s3:" + t.bucket }

func (t *S3Target) Write(ctx context.Context, name string, payload []byte) error {
	key := name
	if t.prefix != "" {
		key = t.prefix + "/" + name
	}
	_, err := t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup %s: %w", key, err)
	}
	return nil
}
