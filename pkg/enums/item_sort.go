package enums

import "fmt"

// ItemSort selects the ordering applied to catalog listing queries.
type ItemSort string

const (
	ItemSortRecent  ItemSort = "recent"
	ItemSortPoints  ItemSort = "points"
	ItemSortPopular ItemSort = "popular"
)

var validItemSorts = []ItemSort{
	ItemSortRecent,
	ItemSortPoints,
	ItemSortPopular,
}

// String implements fmt.Stringer.
func (i ItemSort) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemSort.
func (i ItemSort) IsValid() bool {
	for _, candidate := range validItemSorts {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemSort converts raw input into an ItemSort, defaulting to recent.
func ParseItemSort(value string) (ItemSort, error) {
	if value == "" {
		return ItemSortRecent, nil
	}
	for _, candidate := range validItemSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item sort %q", value)
}
