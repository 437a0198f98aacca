// Package catalog provides the static reference data for the game:
// products, shop tiers, and the global event catalog.
package catalog

// Category tags a product with its merchandise type.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryDaily       Category = "daily"
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryToys        Category = "toys"
	CategoryBeauty      Category = "beauty"
	CategorySports      Category = "sports"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategoryHealth      Category = "health"
	CategoryLuxury      Category = "luxury"
	CategoryStationery  Category = "stationery"
	CategorySnacks      Category = "snacks"
	CategoryDrinks      Category = "drinks"
)

// AllCategories lists every valid category tag.
var AllCategories = []Category{
	CategoryFood, CategoryDaily, CategoryElectronics, CategoryClothing,
	CategoryToys, CategoryBeauty, CategorySports, CategoryBooks,
	CategoryHome, CategoryHealth, CategoryLuxury, CategoryStationery,
	CategorySnacks, CategoryDrinks,
}

// StapleCategories are always in medium demand unless an event boosts them.
var StapleCategories = []Category{CategoryFood, CategoryDaily}

// Valid reports whether c is one of the known category tags.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsStaple reports whether c is a staple category (food, daily).
func (c Category) IsStaple() bool {
	for _, s := range StapleCategories {
		if c == s {
			return true
		}
	}
	return false
}
