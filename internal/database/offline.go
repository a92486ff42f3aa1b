package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/typeahead"
)

var (
	ErrUnknownRoute     = errors.New("no cached record kind for path")
	ErrConflictingRoute = errors.New("lookups share a path but return different kinds")
)

// OfflineTransport answers typeahead searches from the cache. Responses
// have the same shape as the backend's: a JSON array of records.
type OfflineTransport struct {
	repo   RecordRepository
	routes map[string]models.Kind
	limit  int
}

var _ typeahead.Transport = (*OfflineTransport)(nil)

// NewOfflineTransport maps each lookup's path to the kind it returns.
// Two lookups may share a path only if they return the same kind.
func NewOfflineTransport(repo RecordRepository, lookups map[string]config.Lookup) (*OfflineTransport, error) {
	names := make([]string, 0, len(lookups))
	for name := range lookups {
		names = append(names, name)
	}
	sort.Strings(names)

	routes := make(map[string]models.Kind, len(lookups))
	owners := make(map[string]string, len(lookups))
	for _, name := range names {
		l := lookups[name]
		key := routeKey(l.Path)
		kind := models.Kind(l.Kind)
		if prev, ok := routes[key]; ok && prev != kind {
			return nil, fmt.Errorf("%w: %s (%s, %s)", ErrConflictingRoute, key, owners[key], name)
		}
		routes[key] = kind
		owners[key] = name
	}
	return &OfflineTransport{repo: repo, routes: routes, limit: config.MaxRecentItems}, nil
}

func (t *OfflineTransport) Do(ctx context.Context, req typeahead.Request) ([]byte, error) {
	kind, ok := t.routes[routeKey(req.Path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, req.Path)
	}
	records, err := t.repo.SearchKind(ctx, kind, requestQuery(req), t.limit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(rec.Payload)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// routeKey strips the query string so static and templated paths compare
// equal.
func routeKey(path string) string {
	base, _, _ := strings.Cut(path, "?")
	return strings.TrimRight(base, "/")
}

// requestQuery recovers the user's text from the body or, for GET-style
// lookups, from the path's query string.
func requestQuery(req typeahead.Request) string {
	keys := make([]string, 0, len(req.Body))
	for k := range req.Body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := req.Body[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	_, raw, ok := strings.Cut(req.Path, "?")
	if !ok {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	if q := values.Get("query"); q != "" {
		return q
	}
	for _, vs := range values {
		if len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}
