package form

import (
	"testing"

	"hrportal/internal/entity"
	"hrportal/internal/validation"

	"github.com/google/go-cmp/cmp"
)

func TestEmployeeFormInvite(t *testing.T) {
	f := EmployeeForm{Email: "new@corp.com", RoleID: "3", BaseSalary: "5000000", DaySalary: "250000.5"}
	got, err := f.Invite()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := entity.EmployeeInvite{
		Email:      "new@corp.com",
		Role:       entity.RoleAdmin,
		BaseSalary: 5000000,
		DaySalary:  250000.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invite mismatch (-want +got):\n%s", diff)
	}
}

func TestEmployeeFormInviteRejectsUnknownRole(t *testing.T) {
	f := EmployeeForm{Email: "new@corp.com", RoleID: "7", BaseSalary: "1", DaySalary: "1"}
	if _, err := f.Invite(); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRegistrationFormCompletion(t *testing.T) {
	f := RegistrationForm{
		Fullname: `<b>Jane</b> O'Brien<script>alert(1)</script>`,
		Birthday: "1990-05-01",
		Username: "jane & co",
		Password: "Abcdef1!",
	}
	got := f.Completion(" invite-token ")
	want := entity.RegistrationCompletion{
		Fullname: "Jane O'Brien",
		Birthday: "1990-05-01",
		Username: "jane & co",
		Password: "Abcdef1!",
		Token:    "invite-token",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("completion mismatch (-want +got):\n%s", diff)
	}
}

func TestFormMessages(t *testing.T) {
	v := validation.New()
	if msg := v.Field(EmployeeForm{Email: "plain", RoleID: "1", BaseSalary: "1", DaySalary: "1"}, "email"); msg != "Invalid email address" {
		t.Fatalf("employee email message = %q", msg)
	}
	if msg := v.Field(LoginForm{Email: "plain", Password: "Abcdef1!"}, "email"); msg != "Invalid email" {
		t.Fatalf("login email message = %q", msg)
	}
}

func TestRegistrationFormValidatesText(t *testing.T) {
	errs := validation.New().Struct(RegistrationForm{
		Fullname: "<script>alert(1)</script>",
		Username: "<b></b>",
		Birthday: "1990-01-01",
		Password: "Abcdef1!",
	})
	want := validation.FieldErrors{
		"fullname": "Full Name is required",
		"username": "Username is required",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
