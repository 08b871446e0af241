package source

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/flexprice/productcatalog/internal/config"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/types"
)

// ObjectGetter is the part of the S3 client the source uses
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the catalog export from one object per stage
type S3Source struct {
	client ObjectGetter
	config config.S3Config
	log    *logger.Logger
}

func NewS3Source(client ObjectGetter, cfg config.S3Config, log *logger.Logger) *S3Source {
	return &S3Source{
		client: client,
		config: cfg,
		log:    log,
	}
}

func (s *S3Source) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	key := s.config.ObjectKey(stage)

	s.log.Debugw("fetching catalog from s3",
		"bucket", s.config.Bucket,
		"key", key,
		"stage", stage,
	)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if ierr.As(err, &nsk) {
			return nil, emptyCatalogError(stage, "s3://"+s.config.Bucket+"/"+key)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch the catalog from s3").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrFetch)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fetchError(err, stage, "Failed to read the catalog object")
	}
	if len(data) == 0 {
		return nil, emptyCatalogError(stage, "s3://"+s.config.Bucket+"/"+key)
	}
	return data, nil
}
