package upload

import "time"

// UploadRecord is one accepted silkworm image submission together with the
// classifier verdict captured for it. Rows are immutable after insert.
type UploadRecord struct {
	ID             int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID         int64     `gorm:"column:user_id;index" json:"user_id"`
	StoredFileName string    `gorm:"column:stored_file_name;uniqueIndex" json:"stored_file_name"`
	StoragePath    string    `gorm:"column:storage_path" json:"-"`
	OriginalName   string    `gorm:"column:original_name" json:"original_name"`
	MimeType       string    `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes      int64     `gorm:"column:size_bytes" json:"size_bytes"`
	Label          string    `gorm:"column:label" json:"label"`
	Confidence     float64   `gorm:"column:confidence" json:"confidence"`
	Probabilities  string    `gorm:"column:probabilities" json:"-"` // JSON map, "" when the classifier omitted it
	DiseaseName    *string   `gorm:"column:disease_name" json:"disease_name,omitempty"`
	Measures       string    `gorm:"column:preventive_measures" json:"-"` // JSON array, "[]" for healthy
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (UploadRecord) TableName() string { return "upload_records" }
