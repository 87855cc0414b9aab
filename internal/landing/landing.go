package landing

// Feature is one selling point on the landing page.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Testimonial struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// Content is everything the landing page renders besides the catalog.
type Content struct {
	Features     []Feature     `json:"features"`
	Testimonials []Testimonial `json:"testimonials"`
}

func Defaults() Content {
	return Content{
		Features: []Feature{
			{Icon: "shopping-bag", Title: "Premium Products", Description: "Curated selection of high-quality products from trusted brands"},
			{Icon: "shield", Title: "Secure Shopping", Description: "100% secure payments with advanced encryption technology"},
			{Icon: "truck", Title: "Fast Delivery", Description: "Quick and reliable delivery to your doorstep"},
			{Icon: "credit-card", Title: "Easy Payments", Description: "Multiple payment options including cards, UPI, and COD"},
		},
		Testimonials: []Testimonial{
			{Name: "Test User 1", Role: "Verified Customer", Content: "Amazing shopping experience! Fast delivery and excellent customer service.", Rating: 5},
			{Name: "Test User 2", Role: "Regular Customer", Content: "Great product quality and competitive prices. Highly recommended!", Rating: 5},
			{Name: "Test User 3", Role: "Happy Shopper", Content: "User-friendly interface and seamless checkout process. Love it!", Rating: 5},
		},
	}
}
