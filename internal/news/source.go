package news

import "context"

// Article is one search hit as returned by the news provider, in the
// provider's relevance order.
type Article struct {
	Title      string
	SourceName string
	URL        string
}

// Source is the capability the crisis monitor depends on. Implementations
// return a typed error for transport failures; an empty slice with a nil error
// means the query genuinely matched nothing.
type Source interface {
	Search(ctx context.Context, keywords string, maxResults int) ([]Article, error)
}
