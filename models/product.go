package models

import "time"

// Stock status labels derived from the stock level.
const (
	StockInStock = "In Stock"
	StockLow     = "Low Stock"
	StockOut     = "Out of Stock"
)

const DefaultLowStockThreshold = 5

type CompatibleModel struct {
	ModelName string `json:"modelName" bson:"modelName"`
	YearFrom  int    `json:"yearFrom,omitempty" bson:"yearFrom,omitempty"`
	YearTo    int    `json:"yearTo,omitempty" bson:"yearTo,omitempty"`
	Variant   string `json:"variant,omitempty" bson:"variant,omitempty"`
}

type ProductImage struct {
	URL    string `json:"url" bson:"url"`
	FileID string `json:"fileId,omitempty" bson:"fileId,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length,omitempty" bson:"length,omitempty"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
}

type Product struct {
	ProductID           string            `json:"productId" bson:"productId"`
	Name                string            `json:"name" bson:"name"`
	PartNumber          string            `json:"partNumber" bson:"partNumber"`
	SanitizedPartNumber string            `json:"-" bson:"sanitizedPartNumber"`
	Description         string            `json:"description,omitempty" bson:"description,omitempty"`
	Category            string            `json:"category" bson:"category"`
	Subcategory         string            `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	CompatibleModels    []CompatibleModel `json:"compatibleModels,omitempty" bson:"compatibleModels,omitempty"`
	Price               float64           `json:"price" bson:"price"`
	DiscountPrice       float64           `json:"discountPrice,omitempty" bson:"discountPrice,omitempty"`
	Stock               int               `json:"stock" bson:"stock"`
	LowStockThreshold   int               `json:"lowStockThreshold" bson:"lowStockThreshold"`
	StockStatus         string            `json:"stockStatus" bson:"stockStatus"`
	Images              []ProductImage    `json:"images,omitempty" bson:"images,omitempty"`
	Specifications      map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	WarrantyPeriod      string            `json:"warrantyPeriod,omitempty" bson:"warrantyPeriod,omitempty"`
	Manufacturer        string            `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	Tags                []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Weight              float64           `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions          *Dimensions       `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	IsActive            bool              `json:"isActive" bson:"isActive"`
	IsDeleted           bool              `json:"-" bson:"isDeleted"`
	TotalSales          int               `json:"totalSales" bson:"totalSales"`
	CreatedAt           time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// FinalPrice is the price a buyer actually pays right now.
func (p *Product) FinalPrice() float64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

// StockStatusFor maps a stock level to its display status.
func StockStatusFor(stock, lowStockThreshold int) string {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	switch {
	case stock <= 0:
		return StockOut
	case stock <= lowStockThreshold:
		return StockLow
	default:
		return StockInStock
	}
}

// RefreshStockStatus recomputes the derived status after a stock change.
func (p *Product) RefreshStockStatus() {
	p.StockStatus = StockStatusFor(p.Stock, p.LowStockThreshold)
}

// FirstImageURL returns the primary image, or "" when none is set.
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
