package typeahead

import "context"

// Suggestion is a candidate record with a unique identifier.
type Suggestion interface {
	SuggestionID() string
}

// Request is one search call issued after the debounce window closes.
type Request struct {
	Path   string
	Method string
	Body   map[string]any
}

// Transport performs the search request and returns the raw JSON response.
//
//go:generate mockgen -source=request.go -destination=mock_transport_test.go -package=typeahead
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// PathResolver yields the request path for a query.
type PathResolver interface {
	Resolve(query string) string
}

// StaticPath is a PathResolver that ignores the query.
type StaticPath string

func (p StaticPath) Resolve(string) string { return string(p) }

// PathFunc derives the path from the query.
type PathFunc func(query string) string

func (f PathFunc) Resolve(query string) string { return f(query) }

// SearchConfig describes how queries become requests.
type SearchConfig struct {
	Path   PathResolver
	Method string
	// RequestKey, when set, carries the query in the request body.
	RequestKey string
	// AllowUnknown keeps free text that never matched a suggestion.
	AllowUnknown bool
}

func (c SearchConfig) request(query string) Request {
	body := map[string]any{}
	if c.RequestKey != "" {
		body[c.RequestKey] = query
	}
	var path string
	if c.Path != nil {
		path = c.Path.Resolve(query)
	}
	return Request{Path: path, Method: c.Method, Body: body}
}
