package domain

import "time"

// User is the client-facing user representation. The password hash never
// appears here. DOB is rendered as an ISO date string.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age,omitempty"`
	DOB       *string    `json:"dob,omitempty"`
	Contact   *string    `json:"contact,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// SignupRequest is the POST /api/auth/signup body.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the PUT /api/profile body. All fields are
// optional; only provided, non-null fields are applied.
type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1"`
	Age     *int    `json:"age" binding:"omitempty,min=1,max=150"`
	DOB     *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Contact *string `json:"contact"`
}

// LoginResult is what the logic layer returns on a successful login.
type LoginResult struct {
	Token        string
	SessionToken string
	User         User
}
