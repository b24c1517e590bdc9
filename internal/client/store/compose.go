package store

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

// SortOption selects the ordering of the derived view.
type SortOption string

const (
	SortByName          SortOption = "name"
	SortByDateAdded     SortOption = "dateAdded"
	SortByLastContacted SortOption = "lastContacted"
)

// Valid reports whether the option is a known sort option.
func (o SortOption) Valid() bool {
	switch o {
	case SortByName, SortByDateAdded, SortByLastContacted:
		return true
	}
	return false
}

// FilterOption selects the category predicate of the derived view.
type FilterOption string

const (
	FilterAll       FilterOption = "all"
	FilterBlocked   FilterOption = "blocked"
	FilterFavorites FilterOption = "favorites"
	FilterRecent    FilterOption = "recent"
)

// Valid reports whether the option is a known filter option.
func (o FilterOption) Valid() bool {
	switch o {
	case FilterAll, FilterBlocked, FilterFavorites, FilterRecent:
		return true
	}
	return false
}

// recentWindow is how far back "recent" reaches from now.
const recentWindow = 7 * 24 * time.Hour

func matchesSearch(c domain.Contact, term string) bool {
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	if strings.Contains(strings.ToLower(c.Name), lower) {
		return true
	}
	// Number matching is a plain substring check on the digit string.
	if strings.Contains(c.Number, term) {
		return true
	}
	return c.Email != "" && strings.Contains(strings.ToLower(c.Email), lower)
}

func matchesFilter(c domain.Contact, opt FilterOption, now time.Time) bool {
	switch opt {
	case FilterBlocked:
		return c.Blocked
	case FilterFavorites:
		return c.Favourite
	case FilterRecent:
		// A contact never reached is not recent, whatever the window.
		return c.LastContacted != nil && !c.LastContacted.Before(now.Add(-recentWindow))
	default:
		return true
	}
}

// Compose computes the filtered and sorted projection of contacts. It is a
// pure function: the input slice is never modified, and equal inputs always
// produce the same output. Sorting is stable, so contacts sharing a sort key
// keep their relative order. A missing LastContacted sorts after any present
// value regardless of direction.
func Compose(contacts []domain.Contact, searchTerm string, sortOption SortOption, filterOption FilterOption, now time.Time) []domain.Contact {
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		if matchesSearch(c, searchTerm) && matchesFilter(c, filterOption, now) {
			out = append(out, c)
		}
	}

	switch sortOption {
	case SortByDateAdded:
		slices.SortStableFunc(out, func(a, b domain.Contact) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortByLastContacted:
		slices.SortStableFunc(out, func(a, b domain.Contact) int {
			switch {
			case a.LastContacted == nil && b.LastContacted == nil:
				return 0
			case a.LastContacted == nil:
				return 1
			case b.LastContacted == nil:
				return -1
			default:
				return b.LastContacted.Compare(*a.LastContacted)
			}
		})
	default:
		col := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b domain.Contact) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
	return out
}
