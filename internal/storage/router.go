package storage

import (
	"context"
)

// Router picks a fetcher per source: blob URLs go to Azure when it is
// configured, everything else to HTTP.
type Router struct {
	httpFetcher  SourceFetcher
	azureFetcher SourceFetcher
}

// NewRouter creates a router. azureFetcher may be nil.
func NewRouter(httpFetcher SourceFetcher, azureFetcher SourceFetcher) *Router {
	return &Router{httpFetcher: httpFetcher, azureFetcher: azureFetcher}
}

// Fetch implements SourceFetcher.
func (r *Router) Fetch(ctx context.Context, source string) (*TempFile, error) {
	if r.azureFetcher != nil && IsBlobURL(source) {
		return r.azureFetcher.Fetch(ctx, source)
	}
	return r.httpFetcher.Fetch(ctx, source)
}
