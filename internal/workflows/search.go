package workflows

import (
	"context"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/store"
)

// SearchOptions configures the search workflow.
type SearchOptions struct {
	Query string

	// Limit caps name matches. Zero uses search.max_results.
	Limit int

	// Content also searches decrypted content with pass grep. It is
	// enabled by search.include_content as well.
	Content    bool
	IgnoreCase bool
}

// SearchResult contains name and content matches.
type SearchResult struct {
	Names   []store.SearchMatch
	Content []store.GrepMatch
}

// Search fuzzy-matches entry names and, if requested, greps entry content.
func Search(ctx context.Context, a *app.Context, opts SearchOptions) (*SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = a.Config.Search.MaxResults
	}

	names, err := a.Store.Search(opts.Query, limit)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{Names: names}

	if (opts.Content || a.Config.Search.IncludeContent) && opts.Query != "" {
		matches, err := a.Store.Grep(ctx, opts.Query, opts.IgnoreCase)
		recordOp(a, "grep", "", err)
		if err != nil {
			return nil, err
		}
		result.Content = matches
	}
	return result, nil
}
