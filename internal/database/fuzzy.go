package database

import (
	"sort"
	"strings"
	"sync"

	"github.com/akyairhashvil/cadlookup/internal/models"
	"github.com/junegunn/fzf/src/algo"
	fzfutil "github.com/junegunn/fzf/src/util"
)

var initFuzzy sync.Once

// rankRecords keeps records whose label or id matches every term and
// sorts them by descending score. Ties keep recency order.
func rankRecords(records []models.CachedRecord, terms []string) []models.CachedRecord {
	initFuzzy.Do(func() { algo.Init("default") })

	patterns := make([][]rune, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, []rune(strings.ToLower(term)))
	}
	slab := fzfutil.MakeSlab(100*1024, 2048)

	matched := make([]models.CachedRecord, 0, len(records))
	for _, rec := range records {
		text := fzfutil.ToChars([]byte(rec.Label + " " + rec.RecordID))
		score, ok := 0, true
		for _, pattern := range patterns {
			res, _ := algo.FuzzyMatchV2(false, true, true, &text, pattern, false, slab)
			if res.Start < 0 {
				ok = false
				break
			}
			score += res.Score
		}
		if !ok {
			continue
		}
		rec.Score = score
		matched = append(matched, rec)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	return matched
}
