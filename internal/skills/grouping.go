package skills

import (
	"sort"

	"github.com/skillflow/skillflow-server/internal/models"
)

// ModuleGroup is one display group of a skill's entries. Entries keep their
// newest-first order within the group.
type ModuleGroup struct {
	Module  string         `json:"module"`
	Entries []models.Entry `json:"entries"`
}

// GroupByModule is a derived view, not stored state: entries grouped by
// module label, default "Uncategorized". Groups are ordered by recency of
// introduction: the module whose oldest entry sits deepest in the
// newest-first list comes first, so learners see modules in the order they
// originally started them. "Uncategorized" always sorts first.
func GroupByModule(entries []models.Entry) []ModuleGroup {
	grouped := make(map[string][]models.Entry)
	lastIndex := make(map[string]int)
	var order []string

	for i, e := range entries {
		name := e.Module
		if name == "" {
			name = models.DefaultModule
		}
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], e)
		lastIndex[name] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a == models.DefaultModule {
			return true
		}
		if b == models.DefaultModule {
			return false
		}
		return lastIndex[a] > lastIndex[b]
	})

	out := make([]ModuleGroup, 0, len(order))
	for _, name := range order {
		out = append(out, ModuleGroup{Module: name, Entries: grouped[name]})
	}
	return out
}

// ExistingModules returns the distinct non-empty module labels of an entry
// set, in first-seen order. The UI uses it for autocomplete.
func ExistingModules(entries []models.Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.Module == "" || seen[e.Module] {
			continue
		}
		seen[e.Module] = true
		out = append(out, e.Module)
	}
	return out
}
