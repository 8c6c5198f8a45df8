package model

import "time"

// CategoryCounts tallies distinct unit names by mapping category.
type CategoryCounts struct {
	Formal    int64
	Exception int64
	General   int64
	Ignored   int64
}

// BatchSummary captures the outcome of a single batch run.
type BatchSummary struct {
	BatchID    string
	SourceFile string
	FileSHA256 string

	RowsRead             int64
	RowsStaged           int64
	ProcessedRows        int64
	IgnoredRows          int64
	MeterReadingsUpdated int64
	ConflictsDetected    int64
	ConflictsSkipped     int64

	AssetsByCategory CategoryCounts

	ErrorCount   int64
	WarningCount int64

	DurationValidate     time.Duration
	DurationStage        time.Duration
	DurationResolve      time.Duration
	DurationTransactions time.Duration
	DurationFinalize     time.Duration
	DurationTotal        time.Duration
}
