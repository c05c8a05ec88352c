package auth

import "time"

type UserRole string

const (
	RoleFarmer UserRole = "farmer"
	RoleAdmin  UserRole = "admin"
)

// User is a registered farmer account. Uploads reference users by ID only.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name" json:"name"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	Phone        string    `gorm:"column:phone;uniqueIndex" json:"phone"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Role         UserRole  `gorm:"column:role" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
