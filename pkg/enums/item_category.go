package enums

import "fmt"

// ItemCategory describes the allowed values for the `category` column on items.
type ItemCategory string

const (
	ItemCategoryTops      ItemCategory = "tops"
	ItemCategoryBottoms   ItemCategory = "bottoms"
	ItemCategoryOuterwear ItemCategory = "outerwear"
	ItemCategoryFootwear  ItemCategory = "footwear"
)

var validItemCategories = []ItemCategory{
	ItemCategoryTops,
	ItemCategoryBottoms,
	ItemCategoryOuterwear,
	ItemCategoryFootwear,
}

// String implements fmt.Stringer.
func (i ItemCategory) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCategory.
func (i ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
