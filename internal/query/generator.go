// Package query turns an item name into ranked marketplace search variants.
package query

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/marketval/internal/model"
)

// MaxVariants caps the number of query variants returned per item.
const MaxVariants = 5

// Options tunes query generation.
type Options struct {
	// CategoryHint, when set, adds category-prefixed and -suffixed variants.
	CategoryHint string
}

// Generate builds an ordered list of at most MaxVariants unique search
// queries for the item, most specific first. It always returns at least the
// raw name and has no failure mode.
func Generate(itemName string, opts Options) []model.SearchQuery {
	name := strings.TrimSpace(itemName)
	hint := strings.TrimSpace(opts.CategoryHint)
	if name == "" {
		return []model.SearchQuery{{Text: itemName}}
	}

	candidates := []string{
		name,
		fmt.Sprintf("%q", name),
	}
	if hint != "" {
		candidates = append(candidates,
			hint+" "+name,
			name+" "+hint,
		)
	}
	candidates = append(candidates,
		name+" lot",
		name+" bundle",
		name+" new",
		name+" used",
	)

	fold := cases.Fold()
	seen := make(map[string]struct{}, len(candidates))
	var queries []model.SearchQuery

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := fold.String(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		queries = append(queries, model.SearchQuery{Text: c, Rank: len(queries)})
		if len(queries) == MaxVariants {
			break
		}
	}

	return queries
}
