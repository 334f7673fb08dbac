package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/agendaai/agenda-api/internal/config"
)

// ======================================================
// Armazenamento de mídia (S3 compatível)
// ======================================================

type Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewStorage devolve nil quando o armazenamento não está configurado;
// os handlers tratam nil como upload desativado.
func NewStorage(cfg *config.Config) *Storage {
	if !cfg.StorageConfigured() {
		return nil
	}

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.StorageEndpoint),
		Region:       cfg.StorageRegion,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			"",
		),
		UsePathStyle: true,
	})

	return &Storage{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(cfg.StoragePublicURL, "/"),
	}
}

// UploadLogo grava o logo já normalizado e devolve a URL pública.
func (s *Storage) UploadLogo(ctx context.Context, establishmentID uint, data []byte) (string, error) {
	key := fmt.Sprintf("logos/%d/%s.webp", establishmentID, uuid.NewString())

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("falha no upload do logo: %w", err)
	}

	return s.publicURL + "/" + key, nil
}
