package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"silkscan/internal/classifier"
	"silkscan/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type classifierClient interface {
	Classify(ctx context.Context, filePath string) (*classifier.Prediction, error)
}

// Service composes the submit flow: store the file, classify it, enrich a
// diseased verdict, persist the record. The stored file survives the flow
// iff the record was persisted; every other exit path removes it.
type Service struct {
	repo       Repository
	files      *FileStore
	classifier classifierClient
	log        *zap.Logger
}

func NewService(repo Repository, files *FileStore, classifier classifierClient, log *zap.Logger) *Service {
	return &Service{repo: repo, files: files, classifier: classifier, log: log}
}

// SubmitResult carries everything the response needs from one submission.
type SubmitResult struct {
	Record     *UploadRecord
	Prediction *classifier.Prediction
	Disease    *DiseaseInfo
}

func (s *Service) Submit(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*SubmitResult, error) {
	stored, err := s.files.Save(fileHeader)
	if err != nil {
		return nil, err
	}

	// The file is released on every exit path that is not full success,
	// including caller disconnects surfacing as context errors.
	persisted := false
	defer func() {
		if persisted {
			return
		}
		if rmErr := stored.Remove(); rmErr != nil {
			s.log.Warn("failed to remove stored file after aborted submission",
				zap.String("file", stored.Name), zap.Error(rmErr))
		}
	}()

	pred, err := s.classifier.Classify(ctx, stored.Path)
	if err != nil {
		return nil, err
	}

	info := pickDiseaseInfo(pred.Label)

	rec := &UploadRecord{
		UserID:         userID,
		StoredFileName: stored.Name,
		StoragePath:    stored.Path,
		OriginalName:   fileHeader.Filename,
		MimeType:       stored.MimeType,
		SizeBytes:      stored.Size,
		Label:          pred.Label,
		Confidence:     pred.Confidence,
		Probabilities:  utils.FloatsToJSON(pred.Probabilities),
		Measures:       "[]",
	}
	if info != nil {
		rec.DiseaseName = &info.Name
		rec.Measures = utils.StringsToJSON(info.PreventiveMeasures)
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateFile) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	persisted = true

	s.log.Info("upload classified",
		zap.Int64("upload_id", rec.ID),
		zap.Int64("user_id", userID),
		zap.String("label", rec.Label),
		zap.Float64("confidence", rec.Confidence))

	return &SubmitResult{Record: rec, Prediction: pred, Disease: info}, nil
}

func (s *Service) History(ctx context.Context, userID int64, limit, offset int) ([]*UploadRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Stats(ctx context.Context, userID int64) ([]LabelStat, error) {
	return s.repo.AggregateStats(ctx, userID)
}
