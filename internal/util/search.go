package util

import (
	"regexp"
	"strings"
)

// SearchQuery represents the parsed components of a cache search string.
type SearchQuery struct {
	Kinds []string
	IDs   []string
	Text  []string
}

var (
	kindRegex = regexp.MustCompile(`(?i)\bkind:(\w+)`)
	idRegex   = regexp.MustCompile(`(?i)\bid:([\w-]+)`)
)

// ParseSearchQuery splits kind: and id: filters from free text.
func ParseSearchQuery(query string) SearchQuery {
	sq := SearchQuery{}

	extract := func(re *regexp.Regexp, lower bool) []string {
		matches := re.FindAllStringSubmatch(query, -1)
		if matches == nil {
			return nil
		}
		var values []string
		for _, match := range matches {
			if len(match) > 1 {
				v := match[1]
				if lower {
					v = strings.ToLower(v)
				}
				values = append(values, v)
			}
		}
		query = re.ReplaceAllString(query, "")
		return values
	}

	sq.Kinds = extract(kindRegex, true)
	sq.IDs = extract(idRegex, false)
	sq.Text = strings.Fields(query)
	return sq
}

// Pattern joins the free-text terms for fuzzy matching.
func (q SearchQuery) Pattern() string {
	return strings.Join(q.Text, " ")
}

func (q SearchQuery) Empty() bool {
	return len(q.Kinds) == 0 && len(q.IDs) == 0 && len(q.Text) == 0
}
