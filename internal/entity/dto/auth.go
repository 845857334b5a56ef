package dto

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the user block returned by a successful login.
type LoginUser struct {
	ID     int64 `json:"id"`
	RoleID int   `json:"roleID"`
}

// LoginResponse is the body returned by POST /api/login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}
