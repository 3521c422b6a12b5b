package pipeline

import "context"

// InputFetcher reads the raw bytes behind a source URI. source.Fetcher is
// the production implementation; tests supply mocks.
type InputFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}
