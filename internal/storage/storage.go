package storage

import "verusTicker/internal/model"

// Storage defines a sink for raw pool records.
type Storage interface {
	PutRecordBatch(records []model.RawPoolRecord) error
}
