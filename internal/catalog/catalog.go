package catalog

import "github.com/shopspring/decimal"

// Product is a listed item that can be added to the cart.
type Product struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

const (
	CategorySnacks        = "snacks"
	CategoryVegPickles    = "veg_pickles"
	CategoryNonVegPickles = "non_veg_pickles"
)

var listings = map[string][]Product{
	CategorySnacks: {
		{Name: "Banana Chips", Description: "Thin Kerala-style chips fried in coconut oil.", Price: decimal.RequireFromString("120.00")},
		{Name: "Murukku", Description: "Crunchy rice flour spirals with sesame and cumin.", Price: decimal.RequireFromString("150.00")},
		{Name: "Masala Peanuts", Description: "Gram-flour coated peanuts with chilli.", Price: decimal.RequireFromString("90.00")},
		{Name: "Ribbon Pakoda", Description: "Spiced ribbons of gram and rice flour.", Price: decimal.RequireFromString("130.00")},
	},
	CategoryVegPickles: {
		{Name: "Mango Pickle", Description: "Raw mango in mustard oil and red chilli.", Price: decimal.RequireFromString("200.00")},
		{Name: "Lemon Pickle", Description: "Sun-cured lemons with salt and turmeric.", Price: decimal.RequireFromString("150.00")},
		{Name: "Gongura Pickle", Description: "Tangy sorrel leaves tempered with garlic.", Price: decimal.RequireFromString("220.00")},
		{Name: "Garlic Pickle", Description: "Whole garlic cloves in a tamarind base.", Price: decimal.RequireFromString("180.00")},
	},
	CategoryNonVegPickles: {
		{Name: "Chicken Pickle", Description: "Boneless chicken slow-cooked in spices.", Price: decimal.RequireFromString("350.00")},
		{Name: "Mutton Pickle", Description: "Tender mutton in a fiery masala.", Price: decimal.RequireFromString("450.00")},
		{Name: "Prawn Pickle", Description: "Coastal prawns with curry leaves and vinegar.", Price: decimal.RequireFromString("400.00")},
		{Name: "Fish Pickle", Description: "Seer fish cubes in a tangy red masala.", Price: decimal.RequireFromString("380.00")},
	},
}

// Category returns the products listed under name, or nil for an unknown one.
func Category(name string) []Product {
	products := listings[name]
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
