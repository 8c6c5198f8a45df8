package model

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus tracks a ProcessingBatch through the pipeline.
type BatchStatus string

const (
	BatchUploading            BatchStatus = "uploading"
	BatchStaged               BatchStatus = "staged"
	BatchProcessing           BatchStatus = "processing"
	BatchNeedsMeterResolution BatchStatus = "needs_meter_resolution"
	BatchCompleted            BatchStatus = "completed"
	BatchError                BatchStatus = "error"
)

// Terminal reports whether the status is an end state.
func (s BatchStatus) Terminal() bool {
	return s == BatchCompleted || s == BatchError
}

// ProcessingBatch is one import attempt.
type ProcessingBatch struct {
	BatchID          uuid.UUID
	SourceFileName   string
	SourceFileSHA256 string
	TotalRows        int64
	Status           BatchStatus
	CreatedAt        time.Time
}
