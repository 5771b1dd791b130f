package repository

import "time"

// ProductListFilter narrows product listings.
type ProductListFilter struct {
	Page      int
	PageSize  int
	BrandID   uint
	Search    string
	InStock   bool
	WithBrand bool
}

// PersonListFilter narrows persona listings.
type PersonListFilter struct {
	Page     int
	PageSize int
	Search   string
	Role     string
}

// SaleListFilter narrows venta listings.
type SaleListFilter struct {
	Page        int
	PageSize    int
	PersonID    uint
	Status      string
	BuyerEmail  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
