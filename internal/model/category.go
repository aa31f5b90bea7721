package model

// Category is a spending category a card can earn rewards in.
type Category string

const (
	CategoryDining         Category = "dining"
	CategoryTravel         Category = "travel"
	CategoryShopping       Category = "shopping"
	CategoryGroceries      Category = "groceries"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryHealthcare     Category = "healthcare"
	CategoryTransportation Category = "transportation"
	// CategoryOther is the fallback bucket for cashback lookups when a card
	// has no rate for the transaction's own category.
	CategoryOther Category = "other"
)

// Categories lists every valid category in a fixed order.
var Categories = []Category{
	CategoryDining,
	CategoryTravel,
	CategoryShopping,
	CategoryGroceries,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryTransportation,
	CategoryOther,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
