package workflow

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hrportal/internal/apiclient"
	"hrportal/internal/config"
	"hrportal/internal/entity"
	"hrportal/internal/entity/dto"
	"hrportal/internal/form"
	"hrportal/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
)

type fakeAPI struct {
	loginResp  *dto.LoginResponse
	loginErr   error
	createErr  error
	regStatus  int
	regErr     error
	createCall int
	regCalls   int
	lastToken  string
	lastInvite entity.EmployeeInvite
}

func (f *fakeAPI) Login(_ context.Context, _ entity.Credentials) (*dto.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) CreateEmployee(_ context.Context, token string, invite entity.EmployeeInvite) error {
	f.createCall++
	f.lastToken = token
	f.lastInvite = invite
	return f.createErr
}

func (f *fakeAPI) CompleteRegistration(_ context.Context, token string, _ entity.RegistrationCompletion) (int, error) {
	f.regCalls++
	f.lastToken = token
	return f.regStatus, f.regErr
}

var conflict = &apiclient.StatusError{Method: http.MethodPost, Path: apiclient.PathAuth, StatusCode: http.StatusConflict}

func TestLoginWorkedExample(t *testing.T) {
	api := &fakeAPI{loginResp: &dto.LoginResponse{Token: "t1", User: dto.LoginUser{ID: 7, RoleID: 1}}}
	svc := NewService(api, config.DefaultMessages())

	out := svc.Login(context.Background(), entity.Credentials{Email: "a@b.com", Password: "Abcdef1!"})

	if !out.OK {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Session == nil || out.Session.Token != "t1" {
		t.Fatalf("expected stored token t1, got %+v", out.Session)
	}
	if out.Redirect != "/menu-employee/7" {
		t.Fatalf("expected redirect to /menu-employee/7, got %q", out.Redirect)
	}
	want := []entity.Toast{config.DefaultMessages().LoginSuccess}
	if diff := cmp.Diff(want, out.Toasts); diff != "" {
		t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginRoutesByRole(t *testing.T) {
	tests := []struct {
		roleID int
		want   string
	}{
		{roleID: 1, want: "/menu-employee/42"},
		{roleID: 2, want: "/menu-employee/42"},
		{roleID: 3, want: "/menu-admin"},
	}
	for _, tt := range tests {
		t.Run(entity.Role(tt.roleID).String(), func(t *testing.T) {
			api := &fakeAPI{loginResp: &dto.LoginResponse{Token: "tok", User: dto.LoginUser{ID: 42, RoleID: tt.roleID}}}
			out := NewService(api, config.DefaultMessages()).Login(context.Background(), entity.Credentials{})
			if out.Redirect != tt.want {
				t.Fatalf("redirect = %q, want %q", out.Redirect, tt.want)
			}
			if out.Session.Role != entity.Role(tt.roleID) {
				t.Fatalf("session role = %v, want %v", out.Session.Role, tt.roleID)
			}
		})
	}
}

func TestLoginFailureDoesNotNavigateOrStoreToken(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeAPI
	}{
		{name: "auth error", api: &fakeAPI{loginErr: &apiclient.StatusError{StatusCode: http.StatusUnauthorized}}},
		{name: "network error", api: &fakeAPI{loginErr: errors.New("dial tcp: connection refused")}},
		{name: "unset role", api: &fakeAPI{loginResp: &dto.LoginResponse{Token: "t", User: dto.LoginUser{ID: 1, RoleID: 0}}}},
		{name: "unknown role", api: &fakeAPI{loginResp: &dto.LoginResponse{Token: "t", User: dto.LoginUser{ID: 1, RoleID: 9}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewService(tt.api, config.DefaultMessages()).Login(context.Background(), entity.Credentials{})
			if out.OK {
				t.Fatal("expected failure")
			}
			if out.Session != nil {
				t.Fatalf("failed login must not yield a session, got %+v", out.Session)
			}
			if out.Redirect != "" {
				t.Fatalf("failed login must not navigate, got %q", out.Redirect)
			}
			want := []entity.Toast{config.DefaultMessages().LoginFailure}
			if diff := cmp.Diff(want, out.Toasts); diff != "" {
				t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoginLegacyErrorToast(t *testing.T) {
	api := &fakeAPI{loginResp: &dto.LoginResponse{Token: "t1", User: dto.LoginUser{ID: 7, RoleID: 3}}}
	msgs := config.DefaultMessages()
	out := NewService(api, msgs, WithLegacyLoginErrorToast(true)).Login(context.Background(), entity.Credentials{})

	want := []entity.Toast{msgs.LoginSuccess, msgs.LoginFailure}
	if diff := cmp.Diff(want, out.Toasts); diff != "" {
		t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
	}
	if !out.OK || out.Redirect != RouteAdminMenu {
		t.Fatalf("legacy toast must not change navigation, got %+v", out)
	}
}

func TestLoginReadsTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	api := &fakeAPI{loginResp: &dto.LoginResponse{Token: token, User: dto.LoginUser{ID: 1, RoleID: 3}}}
	out := NewService(api, config.DefaultMessages()).Login(context.Background(), entity.Credentials{})
	if !out.Session.ExpiresAt.Equal(exp) {
		t.Fatalf("expected session expiry %v, got %v", exp, out.Session.ExpiresAt)
	}
}

func TestCreateEmployeeRequiresSession(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		session *entity.Session
	}{
		{name: "nil", session: nil},
		{name: "empty token", session: &entity.Session{Role: entity.RoleAdmin}},
		{name: "expired", session: &entity.Session{Token: "t", Role: entity.RoleAdmin, ExpiresAt: now.Add(-time.Second)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc := NewService(api, config.DefaultMessages(), WithClock(func() time.Time { return now }))
			out := svc.CreateEmployee(context.Background(), tt.session, entity.EmployeeInvite{Email: "a@b.com"})
			if !errors.Is(out.Err, ErrNoSession) {
				t.Fatalf("expected ErrNoSession, got %v", out.Err)
			}
			if out.Redirect != RouteHome {
				t.Fatalf("expected redirect home, got %q", out.Redirect)
			}
			if api.createCall != 0 {
				t.Fatal("api must not be called without a session")
			}
		})
	}
}

func TestCreateEmployeeOutcomes(t *testing.T) {
	msgs := config.DefaultMessages()
	session := &entity.Session{Token: "admin-token", UserID: 1, Role: entity.RoleAdmin}
	invite := entity.EmployeeInvite{Email: "new@corp.com", Role: entity.RoleNightShift, BaseSalary: 10, DaySalary: 1}

	t.Run("success", func(t *testing.T) {
		api := &fakeAPI{}
		out := NewService(api, msgs).CreateEmployee(context.Background(), session, invite)
		if !out.OK || out.Redirect != "" {
			t.Fatalf("unexpected outcome %+v", out)
		}
		if diff := cmp.Diff([]entity.Toast{msgs.CreateEmployeeSuccess}, out.Toasts); diff != "" {
			t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
		}
		if api.lastToken != "admin-token" || api.lastInvite != invite {
			t.Fatalf("api called with token %q invite %+v", api.lastToken, api.lastInvite)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := &fakeAPI{createErr: conflict}
		out := NewService(api, msgs).CreateEmployee(context.Background(), session, invite)
		if out.OK {
			t.Fatal("expected failure")
		}
		if diff := cmp.Diff([]entity.Toast{msgs.CreateEmployeeFailure}, out.Toasts); diff != "" {
			t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCreateEmployeeDuplicateClearsLoading(t *testing.T) {
	api := &fakeAPI{createErr: conflict}
	svc := NewService(api, config.DefaultMessages())
	session := &entity.Session{Token: "admin-token", Role: entity.RoleAdmin}

	ctrl := form.NewController[form.EmployeeForm](validation.New())
	for name, value := range map[string]string{
		"email": "dup@corp.com", "roleID": "1", "baseSalary": "100", "daySalary": "10",
	} {
		if err := ctrl.Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	var out Outcome
	err := ctrl.Submit(context.Background(), func(ctx context.Context, f form.EmployeeForm) error {
		invite, err := f.Invite()
		if err != nil {
			return err
		}
		out = svc.CreateEmployee(ctx, session, invite)
		return out.Err
	})
	if !errors.Is(err, apiclient.ErrUnexpectedStatus) {
		t.Fatalf("expected status error, got %v", err)
	}
	if out.OK || len(out.Toasts) != 1 || out.Toasts[0].Status != entity.ToastError {
		t.Fatalf("expected a single failure toast, got %+v", out)
	}
	if ctrl.Loading() {
		t.Fatal("loading flag must return to false after a failure")
	}
}

func TestCompleteRegistration(t *testing.T) {
	msgs := config.DefaultMessages()
	reg := entity.RegistrationCompletion{Fullname: "Jane", Birthday: "1990-01-01", Username: "jane", Password: "Abcdef1!", Token: "invite"}

	t.Run("ok navigates home", func(t *testing.T) {
		api := &fakeAPI{regStatus: http.StatusOK}
		out := NewService(api, msgs).CompleteRegistration(context.Background(), reg)
		if !out.OK || out.Redirect != RouteHome || out.Inline != "" {
			t.Fatalf("unexpected outcome %+v", out)
		}
		if diff := cmp.Diff([]entity.Toast{msgs.RegistrationSuccess}, out.Toasts); diff != "" {
			t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
		}
		if api.lastToken != "invite" {
			t.Fatalf("expected invite token to authorize the call, got %q", api.lastToken)
		}
	})

	t.Run("no content toasts without navigating", func(t *testing.T) {
		api := &fakeAPI{regStatus: http.StatusNoContent}
		out := NewService(api, msgs).CompleteRegistration(context.Background(), reg)
		if !out.OK || out.Redirect != "" || len(out.Toasts) != 1 {
			t.Fatalf("unexpected outcome %+v", out)
		}
	})

	t.Run("failure shows inline expiry", func(t *testing.T) {
		api := &fakeAPI{regErr: &apiclient.StatusError{StatusCode: http.StatusUnauthorized}}
		out := NewService(api, msgs).CompleteRegistration(context.Background(), reg)
		if out.OK || out.Redirect != "" || len(out.Toasts) != 0 {
			t.Fatalf("unexpected outcome %+v", out)
		}
		if out.Inline != msgs.RegistrationExpired {
			t.Fatalf("expected inline expiry message, got %q", out.Inline)
		}
	})

	t.Run("expired jwt short-circuits", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}).SignedString([]byte("k"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		api := &fakeAPI{regStatus: http.StatusOK}
		expired := reg
		expired.Token = token
		out := NewService(api, msgs).CompleteRegistration(context.Background(), expired)
		if !errors.Is(out.Err, ErrInviteExpired) || out.Inline != msgs.RegistrationExpired {
			t.Fatalf("unexpected outcome %+v", out)
		}
		if api.regCalls != 0 {
			t.Fatal("expired invitation must not reach the api")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		api := &fakeAPI{regStatus: http.StatusOK}
		noToken := reg
		noToken.Token = " "
		out := NewService(api, msgs).CompleteRegistration(context.Background(), noToken)
		if out.OK || out.Inline == "" || api.regCalls != 0 {
			t.Fatalf("unexpected outcome %+v", out)
		}
	})
}

func TestRouteForRole(t *testing.T) {
	if _, err := RouteForRole(entity.RoleUnset, 1); !errors.Is(err, ErrUnroutable) {
		t.Fatalf("expected ErrUnroutable, got %v", err)
	}
	if _, err := RouteForRole(entity.Role(42), 1); !errors.Is(err, ErrUnroutable) {
		t.Fatalf("expected ErrUnroutable, got %v", err)
	}
}
