package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           string    `json:"id"`
	ShopkeeperID string    `json:"shopkeeper"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Product is one SKU-lot: (shopkeeper, name, mrp, costPrice, expiryDate).
type Product struct {
	ID           string          `json:"id"`
	ShopkeeperID string          `json:"shopkeeper"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category,omitempty"`
	Mrp          decimal.Decimal `json:"mrp"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Quantity     int             `json:"quantity"`
	ExpiryDate   *time.Time      `json:"expiryDate,omitempty"`

	OutOfStock   bool `json:"outOfStock"`
	IsNearExpiry bool `json:"isNearExpiry"`
	IsExpired    bool `json:"isExpired"`

	ListedForResale bool            `json:"listedForResale"`
	ResaleQuantity  int             `json:"resaleQuantity"`
	ResalePrice     decimal.Decimal `json:"resalePrice"`

	ListedForDiscount bool            `json:"listedForDiscount"`
	Discount          decimal.Decimal `json:"discount"`

	InterestedUsers []InterestedUser `json:"interestedUsers"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type InterestedUser struct {
	ShopkeeperID string    `json:"user"`
	ShopName     string    `json:"shopName"`
	OwnerName    string    `json:"ownerName"`
	Mobile       string    `json:"mobile"`
	Timestamp    time.Time `json:"timestamp"`
}

// HasInterest reports whether shopkeeperID already appears in InterestedUsers.
func (p Product) HasInterest(shopkeeperID string) bool {
	for _, u := range p.InterestedUsers {
		if u.ShopkeeperID == shopkeeperID {
			return true
		}
	}
	return false
}

// SoldProduct is an immutable sale snapshot.
type SoldProduct struct {
	ID           string          `json:"id"`
	ShopkeeperID string          `json:"shopkeeper"`
	Name         string          `json:"name"`
	Mrp          decimal.Decimal `json:"mrp"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Quantity     int             `json:"quantity"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ResaleOffer is a marketplace row: another shop's resale listing joined with
// the owner's public contact details.
type ResaleOffer struct {
	ProductID      string          `json:"id"`
	Name           string          `json:"name"`
	Mrp            decimal.Decimal `json:"mrp"`
	ExpiryDate     *time.Time      `json:"expiryDate,omitempty"`
	IsNearExpiry   bool            `json:"isNearExpiry"`
	IsExpired      bool            `json:"isExpired"`
	ResaleQuantity int             `json:"resaleQuantity"`
	ResalePrice    decimal.Decimal `json:"resalePrice"`
	Owner          ShopContact     `json:"shopkeeper"`
}

type ShopContact struct {
	ID       string `json:"id"`
	ShopName string `json:"shopName"`
	Mobile   string `json:"mobile"`
}

// DiscountDigest is the marketplace-wide discounted product view.
type DiscountDigest struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Discount  decimal.Decimal `json:"discount"`
	Mrp       decimal.Decimal `json:"mrp"`
	ShopName  string          `json:"shopName"`
}

type SaleSummary struct {
	TotalSale     decimal.Decimal `json:"totalSale"`
	TotalPurchase decimal.Decimal `json:"totalPurchase"`
	ProfitOrLoss  decimal.Decimal `json:"profitOrLoss"`
}

type ProductStat struct {
	Name          string          `json:"name"`
	Mrp           decimal.Decimal `json:"mrp"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalSale     decimal.Decimal `json:"totalSale"`
	TotalPurchase decimal.Decimal `json:"totalPurchase"`
	ProfitOrLoss  decimal.Decimal `json:"profitOrLoss"`
}
