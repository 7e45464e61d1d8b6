package model

// Suggestion is one ranked entry from a user's grocery history.
type Suggestion struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Frequency     int     `json:"frequency"`
	Metric        *string `json:"metric"`
	AmountPerItem *string `json:"amount_per_item"`
}

// TransferResult counts the rows copied from one user to another.
type TransferResult struct {
	GroceryItems int64 `json:"grocery_items"`
	History      int64 `json:"history"`
}
