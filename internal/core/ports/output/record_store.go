package ports

import (
	"context"
	"errors"
)

// Record kinds kept by the platform emulator.
const (
	KindWorkSpace     = "workspace"
	KindExperiment    = "experiment"
	KindModel         = "model"
	KindEvaluation    = "evaluation"
	KindDeployment    = "deployment"
	KindDeployedModel = "deployed_model"
	KindUpload        = "upload"
)

// ErrRecordNotFound is returned by RecordStore when kind/id has no record.
var ErrRecordNotFound = errors.New("record not found")

// ErrRecordExists is returned by Insert when kind/id is taken.
var ErrRecordExists = errors.New("record already exists")

// RecordStore persists emulator records as JSON documents keyed by kind and id.
type RecordStore interface {
	// Insert stores a new record; ErrRecordExists if the key is taken.
	Insert(ctx context.Context, kind, id string, v any) error

	// Put creates or replaces a record.
	Put(ctx context.Context, kind, id string, v any) error

	// Get decodes the record into v; ErrRecordNotFound if absent.
	Get(ctx context.Context, kind, id string, v any) error

	// Delete removes the record; ErrRecordNotFound if absent.
	Delete(ctx context.Context, kind, id string) error

	// List calls fn with the raw JSON of every record of kind in insertion order.
	List(ctx context.Context, kind string, fn func(raw []byte) error) error
}
