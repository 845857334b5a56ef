package form

import (
	"fmt"
	"strconv"
	"strings"

	"hrportal/internal/entity"
	"hrportal/internal/validation"
)

// LoginForm backs the login page.
type LoginForm struct {
	Email    string `form:"email" label:"Email" validate:"required,email"`
	Password string `form:"password,raw" label:"Password" validate:"required,password"`
}

// Credentials converts a validated form.
func (f LoginForm) Credentials() entity.Credentials {
	return entity.Credentials{
		Email:    f.Email,
		Password: f.Password,
	}
}

// EmployeeForm backs the admin create-employee page. Numeric inputs stay
// strings until validated so that a bad value gets a field message instead of
// a binding failure.
type EmployeeForm struct {
	Email      string `form:"email" label:"Email" message:"email=Invalid email address" validate:"required,email"`
	RoleID     string `form:"roleID" label:"Role" validate:"required,role"`
	BaseSalary string `form:"baseSalary" label:"Base Salary" validate:"required,numeric,nonnegative"`
	DaySalary  string `form:"daySalary" label:"Day Salary" validate:"required,numeric,nonnegative"`
}

// Invite converts a validated form.
func (f EmployeeForm) Invite() (entity.EmployeeInvite, error) {
	roleID, err := strconv.Atoi(strings.TrimSpace(f.RoleID))
	if err != nil {
		return entity.EmployeeInvite{}, fmt.Errorf("parse role: %w", err)
	}
	role, err := entity.ParseRole(roleID)
	if err != nil {
		return entity.EmployeeInvite{}, err
	}
	base, err := strconv.ParseFloat(strings.TrimSpace(f.BaseSalary), 64)
	if err != nil {
		return entity.EmployeeInvite{}, fmt.Errorf("parse base salary: %w", err)
	}
	day, err := strconv.ParseFloat(strings.TrimSpace(f.DaySalary), 64)
	if err != nil {
		return entity.EmployeeInvite{}, fmt.Errorf("parse day salary: %w", err)
	}
	return entity.EmployeeInvite{
		Email:      f.Email,
		Role:       role,
		BaseSalary: base,
		DaySalary:  day,
	}, nil
}

// RegistrationForm backs the invitation completion page.
type RegistrationForm struct {
	Fullname string `form:"fullname,text" label:"Full Name" validate:"required,text"`
	Birthday string `form:"birthday" label:"Birthday" validate:"required,datetime=2006-01-02"`
	Username string `form:"username,text" label:"Username" validate:"required,text"`
	Password string `form:"password,raw" label:"Password" validate:"required,password"`
}

// Completion converts a validated form; token is taken from the invitation
// link. Free-text fields lose any markup, even when the form was filled in
// without a Controller.
func (f RegistrationForm) Completion(token string) entity.RegistrationCompletion {
	return entity.RegistrationCompletion{
		Fullname: validation.PlainText(f.Fullname),
		Birthday: f.Birthday,
		Username: validation.PlainText(f.Username),
		Password: f.Password,
		Token:    strings.TrimSpace(token),
	}
}
