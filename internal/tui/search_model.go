package tui

import (
	"context"
	"strings"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/akyairhashvil/cadlookup/internal/util"
	"github.com/charmbracelet/bubbles/textinput"
)

// RecentList browses the cache. An empty filter lists the latest lookups;
// otherwise the filter is a cache search query such as "kind:unit 1a".
type RecentList struct {
	Input   textinput.Model
	Results []models.CachedRecord
	Cursor  int
}

func NewRecentList() RecentList {
	ti := textinput.New()
	ti.Placeholder = "filter (kind:vehicle abc)"
	ti.Prompt = "/ "
	ti.Width = config.InputWidth
	ti.CharLimit = config.MaxQueryLength
	return RecentList{Input: ti}
}

// Refresh reloads Results for the current filter.
func (r *RecentList) Refresh(ctx context.Context, db Database) error {
	query := strings.TrimSpace(r.Input.Value())
	var (
		results []models.CachedRecord
		err     error
	)
	if query == "" {
		results, err = db.RecentRecords(ctx, "", config.MaxRecentItems)
	} else {
		results, err = db.SearchRecords(ctx, query, config.MaxRecentItems)
	}
	if err != nil {
		return err
	}
	r.Results = results
	r.Cursor = util.Clamp(r.Cursor, 0, max(len(r.Results)-1, 0))
	return nil
}

// Move shifts the cursor, wrapping at both ends.
func (r *RecentList) Move(delta int) {
	n := len(r.Results)
	if n == 0 {
		r.Cursor = 0
		return
	}
	r.Cursor = ((r.Cursor+delta)%n + n) % n
}

func (r RecentList) Selected() (models.CachedRecord, bool) {
	if r.Cursor < 0 || r.Cursor >= len(r.Results) {
		return models.CachedRecord{}, false
	}
	return r.Results[r.Cursor], true
}

func (r *RecentList) Reset() {
	r.Input.SetValue("")
	r.Input.Blur()
	r.Results = nil
	r.Cursor = 0
}
