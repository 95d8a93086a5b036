package catalog

// Category is a top-level product grouping.
type Category struct {
	ID   int64
	Name string
}

// SubCategory is a second-level grouping under a category.
type SubCategory struct {
	ID         int64
	Name       string
	CategoryID int64
}

// Product is a sellable catalog entry. Price and discount are carried as
// strings holding fixed-point decimals; the catalog never does arithmetic
// on them.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         string
	Slug          string
	Tags          string
	Discount      string
	Stock         int
	CategoryID    int64
	SubCategoryID *int64
	IsActive      bool
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID    int64
	SubCategoryID int64
	ActiveOnly    bool
}
