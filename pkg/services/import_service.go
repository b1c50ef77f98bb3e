package services

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/insightlane/sales-engine/pkg/apperrors"
	"github.com/insightlane/sales-engine/pkg/ingest"
	"github.com/insightlane/sales-engine/pkg/models"
	"github.com/insightlane/sales-engine/pkg/repositories"
)

// ImportService runs the ingestion pipeline: parse the uploaded file,
// validate every row, normalize into canonical records, and persist them in
// a single all-or-nothing transaction.
type ImportService struct {
	repo       repositories.SalesRepository
	normalizer *ingest.Normalizer
	logger     *zap.Logger
}

// NewImportService creates an ImportService with the given estimation policy.
func NewImportService(repo repositories.SalesRepository, policy ingest.EstimationPolicy, logger *zap.Logger) *ImportService {
	return &ImportService{
		repo:       repo,
		normalizer: ingest.NewNormalizer(policy),
		logger:     logger,
	}
}

// Import ingests one uploaded file and reports the number of records
// persisted. The upload artifact at path is removed on every exit path.
// Failures are returned as the typed errors in pkg/apperrors; partial
// imports never persist.
func (s *ImportService) Import(ctx context.Context, path, ext string) (*models.ImportResult, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove upload artifact", zap.String("path", path), zap.Error(err))
		}
	}()

	rows, err := ingest.ParseFile(path, ext)
	if err != nil {
		return nil, err
	}

	validation := ingest.Validate(rows)
	if !validation.Valid {
		s.logger.Info("Upload rejected by validation",
			zap.String("format", string(validation.Format)),
			zap.Int("error_count", len(validation.Errors)))
		return nil, &apperrors.ValidationError{
			Format: string(validation.Format),
			Errors: validation.Errors,
		}
	}

	records := s.normalizer.Normalize(rows, validation.Format)

	count, err := s.repo.InsertBatch(ctx, records)
	if err != nil {
		return nil, &apperrors.IngestionError{Err: err}
	}

	s.logger.Info("Imported sales records",
		zap.String("format", string(validation.Format)),
		zap.Int("records", count))
	return &models.ImportResult{RecordsImported: count}, nil
}
