package upload

import (
	"time"

	"silkscan/internal/pkg/utils"
)

type PredictionDTO struct {
	Label              string             `json:"label"`
	Confidence         float64            `json:"confidence"`
	Probabilities      map[string]float64 `json:"probabilities"`
	Disease            *string            `json:"disease"`
	PreventiveMeasures []string           `json:"preventiveMeasures"`
}

type ImageDTO struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type UploadResponse struct {
	UploadID   int64         `json:"uploadId"`
	Prediction PredictionDTO `json:"prediction"`
	Image      ImageDTO      `json:"image"`
	Timestamp  time.Time     `json:"timestamp"`
}

// PublicURLBase is where stored images are served back from.
const PublicURLBase = "/uploads"

func toUploadResponse(rec *UploadRecord) UploadResponse {
	return UploadResponse{
		UploadID: rec.ID,
		Prediction: PredictionDTO{
			Label:              rec.Label,
			Confidence:         rec.Confidence,
			Probabilities:      utils.JSONToFloats(rec.Probabilities),
			Disease:            rec.DiseaseName,
			PreventiveMeasures: utils.JSONToStrings(rec.Measures),
		},
		Image: ImageDTO{
			URL:      PublicURLBase + "/" + rec.StoredFileName,
			Filename: rec.StoredFileName,
			Size:     rec.SizeBytes,
		},
		Timestamp: rec.CreatedAt,
	}
}
