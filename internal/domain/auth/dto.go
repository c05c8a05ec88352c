package auth

type SignupRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,min=2"`
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Phone    string `json:"phone" binding:"required" validate:"required,min=6"`
	Password string `json:"password" binding:"required,min=6" validate:"required,min=6"`
}

// Phone is the canonical login key; signup captures both email and phone,
// but sessions are opened against the phone number.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserPublic struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func toPublic(u *User) UserPublic {
	return UserPublic{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}
