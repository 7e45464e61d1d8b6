package model

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
}

// UserDeletion reports the dependent rows removed with a user.
type UserDeletion struct {
	GroceryItems int64 `json:"grocery_items"`
	PantryItems  int64 `json:"pantry_items"`
	History      int64 `json:"history"`
	Recipes      int64 `json:"recipes"`
}
