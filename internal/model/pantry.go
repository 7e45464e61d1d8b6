package model

// PantryItem is an item currently stored in the pantry.
type PantryItem struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Quantity      int     `json:"quantity"`
	EntryDate     string  `json:"entry_date"`
	ExpiryDate    string  `json:"expiry_date"`
	Metric        *string `json:"metric"`
	AmountPerItem *string `json:"amount_per_item"`
}

// ExpiringItem is a pantry item annotated with whole days left before expiry.
// The value is negative for items already past their date.
type ExpiringItem struct {
	PantryItem
	DaysUntilExpiry int `json:"days_until_expiry"`
}

// DateLayout is the storage and wire format for pantry dates.
const DateLayout = "2006-01-02"
