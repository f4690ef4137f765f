package dto

import "time"

type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	CategoryID  uint64   `json:"categoryId"`
	Images      []string `json:"images"`
}

// ListingCard is the compact shape used by list and search results:
// denormalized seller/category names plus the first image.
type ListingCard struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	Condition    string    `json:"condition"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	SellerName   string    `json:"seller_name"`
	CategoryName string    `json:"category_name"`
	ImageURL     string    `json:"image_url,omitempty"`
}

type ListingDetail struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Condition    string    `json:"condition"`
	Location     string    `json:"location"`
	CategoryName string    `json:"category_name"`
	SellerID     string    `json:"seller_id"`
	SellerName   string    `json:"seller_name"`
	CreatedAt    time.Time `json:"created_at"`
	Views        int       `json:"views"`
	Images       []string  `json:"images"`
}

type ListingsResponse struct {
	Listings   []ListingCard `json:"listings"`
	Pagination Pagination    `json:"pagination"`
}

type CreateListingResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
}

// SearchQuery collects the /search filters; zero values mean the
// filter is off.
type SearchQuery struct {
	Query     string
	Category  string
	Location  string
	MinPrice  float64
	MaxPrice  float64
	Condition string
	Page      int
	Limit     int
}

type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
