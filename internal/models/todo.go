package models

// Todo is a single to-do item owned by exactly one user.
// Complete toggles via update; delete is terminal.
type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`       // 3–100 characters
	Description string `json:"description"` // 3–100 characters
	Priority    int    `json:"priority"`    // 1–5 inclusive
	Complete    bool   `json:"complete"`
	OwnerID     int    `json:"owner_id"`
}
