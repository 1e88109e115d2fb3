package domain

import "time"

// Todo is a single item owned by one user.
type Todo struct {
	ID        int64     `json:"id"`
	Owner     int64     `json:"-"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
