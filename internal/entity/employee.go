package entity

// EmployeeInvite is created by an admin; the remote API emails the invitee a
// registration link.
type EmployeeInvite struct {
	Email      string
	Role       Role
	BaseSalary float64
	DaySalary  float64
}

// RegistrationCompletion is submitted by the invited employee. Token comes
// from the invitation link, never from a form field.
type RegistrationCompletion struct {
	Fullname string
	Birthday string
	Username string
	Password string
	Token    string
}
