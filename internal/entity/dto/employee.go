package dto

// CreateEmployeeRequest is the body of POST /api/auth.
type CreateEmployeeRequest struct {
	Email      string  `json:"email"`
	RoleID     int     `json:"roleID"`
	BaseSalary float64 `json:"baseSalary"`
	DaySalary  float64 `json:"daySalary"`
}

// CompleteRegistrationRequest is the body of PATCH /api/auth.
type CompleteRegistrationRequest struct {
	Fullname string `json:"fullname"`
	Birthday string `json:"birthday"`
	Username string `json:"username"`
	Password string `json:"password"`
}
