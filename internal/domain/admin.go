package domain

import "time"

// Admin is a back-office account that manages the evaluation.
type Admin struct {
	AdminID      string    `json:"admin_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
