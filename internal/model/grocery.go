package model

type GroceryItem struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Category      string  `json:"category"`
	Checked       bool    `json:"checked"`
	Priority      int     `json:"priority"`
	Metric        *string `json:"metric"`
	AmountPerItem *string `json:"amount_per_item"`
	CreatedAt     string  `json:"created_at"`
}

// GrocerySort orders a grocery listing. The zero value is newest first.
type GrocerySort string

const (
	GrocerySortNewest    GrocerySort = "newest"
	GrocerySortOldest    GrocerySort = "oldest"
	GrocerySortAZ        GrocerySort = "az"
	GrocerySortZA        GrocerySort = "za"
	GrocerySortUnchecked GrocerySort = "unchecked"
)
