package product

import "github.com/shopspring/decimal"

// Product is a catalog entry. The cart only relies on ID, Name, Price and Image.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
}

// AllCategories is the pseudo-category that disables category filtering.
const AllCategories = "All"

const placeholderImage = "/placeholder.svg?height=300&width=300"

// Defaults is the demo catalog the storefront ships with.
func Defaults() []Product {
	return []Product{
		{ID: 1, Name: "Premium Wireless Headphones", Price: decimal.NewFromInt(299), OriginalPrice: decimal.NewFromInt(399), Image: placeholderImage, Rating: 4.5, Reviews: 128, Category: "Electronics", Description: "High-quality wireless headphones with noise cancellation"},
		{ID: 2, Name: "Smart Fitness Watch", Price: decimal.NewFromInt(199), OriginalPrice: decimal.NewFromInt(249), Image: placeholderImage, Rating: 4.3, Reviews: 89, Category: "Wearables", Description: "Track your fitness goals with this advanced smartwatch"},
		{ID: 3, Name: "Leather Messenger Bag", Price: decimal.NewFromInt(149), OriginalPrice: decimal.NewFromInt(199), Image: placeholderImage, Rating: 4.7, Reviews: 156, Category: "Fashion", Description: "Stylish and durable leather bag for professionals"},
		{ID: 4, Name: "Bluetooth Speaker", Price: decimal.NewFromInt(79), OriginalPrice: decimal.NewFromInt(99), Image: placeholderImage, Rating: 4.2, Reviews: 203, Category: "Electronics", Description: "Portable speaker with excellent sound quality"},
		{ID: 5, Name: "Organic Cotton T-Shirt", Price: decimal.NewFromInt(29), OriginalPrice: decimal.NewFromInt(39), Image: placeholderImage, Rating: 4.4, Reviews: 67, Category: "Fashion", Description: "Comfortable and sustainable organic cotton tee"},
		{ID: 6, Name: "Stainless Steel Water Bottle", Price: decimal.NewFromInt(24), OriginalPrice: decimal.NewFromInt(34), Image: placeholderImage, Rating: 4.6, Reviews: 94, Category: "Lifestyle", Description: "Keep your drinks at the perfect temperature"},
	}
}
