package model

type Recipe struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	PrepTime    int    `json:"prep_time"`
	CookTime    int    `json:"cook_time"`
	CreatedAt   string `json:"created_at"`
}
