package core

import "context"

// Context keys for execution options
type contextKey string

const (
	datasetKey contextKey = "dataset"
)

// WithDataset attaches an already built dataset so executors skip loading.
func WithDataset(ctx context.Context, ds *Dataset) context.Context {
	return context.WithValue(ctx, datasetKey, ds)
}

// datasetFromContext returns the attached dataset, if any
func datasetFromContext(ctx context.Context) (*Dataset, bool) {
	ds, ok := ctx.Value(datasetKey).(*Dataset)
	return ds, ok && ds != nil
}
