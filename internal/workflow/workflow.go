// Package workflow maps form submissions to remote API calls and turns the
// result into notifications and navigation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hrportal/internal/auth"
	"hrportal/internal/config"
	"hrportal/internal/entity"
	"hrportal/internal/entity/dto"
	"hrportal/internal/metrics"

	"github.com/sirupsen/logrus"
)

const (
	RouteHome      = "/"
	RouteAdminMenu = "/menu-admin"
)

var (
	ErrNoSession     = errors.New("workflow: no active session")
	ErrInviteExpired = errors.New("workflow: invitation token expired")
	ErrUnroutable    = errors.New("workflow: role has no menu")
)

// EmployeeMenuRoute is the landing page of an employee.
func EmployeeMenuRoute(userID int64) string {
	return "/menu-employee/" + strconv.FormatInt(userID, 10)
}

// RouteForRole picks the menu a freshly logged-in user lands on.
func RouteForRole(role entity.Role, userID int64) (string, error) {
	switch role {
	case entity.RoleMorningShift, entity.RoleNightShift:
		return EmployeeMenuRoute(userID), nil
	case entity.RoleAdmin:
		return RouteAdminMenu, nil
	case entity.RoleUnset:
		return "", fmt.Errorf("%w: %s", ErrUnroutable, role)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnroutable, int(role))
	}
}

// API is the remote collaborator; *apiclient.Client implements it.
type API interface {
	Login(ctx context.Context, creds entity.Credentials) (*dto.LoginResponse, error)
	CreateEmployee(ctx context.Context, sessionToken string, invite entity.EmployeeInvite) error
	CompleteRegistration(ctx context.Context, inviteToken string, reg entity.RegistrationCompletion) (int, error)
}

// Outcome is what a submission produces for the page: notifications, an
// optional navigation target, an optional inline message and, for login, the
// session the caller must keep.
type Outcome struct {
	OK       bool
	Toasts   []entity.Toast
	Redirect string
	Inline   string
	Session  *entity.Session
	Err      error
}

type Options struct {
	// LegacyLoginErrorToast reproduces the old login page, which showed the
	// failure toast after every attempt, successful or not.
	LegacyLoginErrorToast bool
	Now                   func() time.Time
}

type Option func(*Options)

func WithLegacyLoginErrorToast(enabled bool) Option {
	return func(o *Options) { o.LegacyLoginErrorToast = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// Service runs the three submission workflows. It keeps no per-user state;
// sessions are passed in and handed back explicitly.
type Service struct {
	api      API
	messages config.Messages
	opts     Options
}

func NewService(api API, messages config.Messages, opts ...Option) *Service {
	options := Options{Now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		api:      api,
		messages: messages,
		opts:     options,
	}
}

// Messages exposes the copy the service renders, for pages that need the
// same texts.
func (s *Service) Messages() config.Messages {
	return s.messages
}

// Login authenticates and, on success, returns the session to keep and the
// menu to navigate to. A failed login never yields a session.
func (s *Service) Login(ctx context.Context, creds entity.Credentials) Outcome {
	logger := logrus.WithContext(ctx).WithField("workflow", metrics.WorkflowLogin)

	out := s.login(ctx, creds)
	if out.OK {
		metrics.RecordSubmission(metrics.WorkflowLogin, metrics.OutcomeSuccess)
		logger.WithFields(logrus.Fields{
			"user_id": out.Session.UserID,
			"role":    int(out.Session.Role),
		}).Info("login succeeded")
		if s.opts.LegacyLoginErrorToast {
			out.Toasts = append(out.Toasts, s.messages.LoginFailure)
		}
		return out
	}

	metrics.RecordSubmission(metrics.WorkflowLogin, metrics.OutcomeFailure)
	logger.WithError(out.Err).Warn("login failed")
	return out
}

func (s *Service) login(ctx context.Context, creds entity.Credentials) Outcome {
	failure := func(err error) Outcome {
		return Outcome{Toasts: []entity.Toast{s.messages.LoginFailure}, Err: err}
	}

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return failure(err)
	}
	role, err := entity.ParseRole(resp.User.RoleID)
	if err != nil {
		return failure(err)
	}
	route, err := RouteForRole(role, resp.User.ID)
	if err != nil {
		return failure(err)
	}

	session := &entity.Session{
		Token:  resp.Token,
		UserID: resp.User.ID,
		Role:   role,
	}
	if exp, ok := auth.ExpiresAt(resp.Token); ok {
		session.ExpiresAt = exp
	}
	return Outcome{
		OK:       true,
		Toasts:   []entity.Toast{s.messages.LoginSuccess},
		Redirect: route,
		Session:  session,
	}
}

// CreateEmployee sends an invite on behalf of the session's admin. Without a
// usable session it redirects home and makes no call.
func (s *Service) CreateEmployee(ctx context.Context, session *entity.Session, invite entity.EmployeeInvite) Outcome {
	logger := logrus.WithContext(ctx).WithField("workflow", metrics.WorkflowCreateEmployee)

	if !session.Valid(s.opts.Now()) {
		metrics.RecordSubmission(metrics.WorkflowCreateEmployee, metrics.OutcomeRejected)
		return Outcome{Redirect: RouteHome, Err: ErrNoSession}
	}

	if err := s.api.CreateEmployee(ctx, session.Token, invite); err != nil {
		metrics.RecordSubmission(metrics.WorkflowCreateEmployee, metrics.OutcomeFailure)
		logger.WithError(err).WithField("role", int(invite.Role)).Warn("create employee failed")
		return Outcome{
			Toasts: []entity.Toast{s.messages.CreateEmployeeFailure},
			Err:    err,
		}
	}

	metrics.RecordSubmission(metrics.WorkflowCreateEmployee, metrics.OutcomeSuccess)
	logger.WithFields(logrus.Fields{
		"admin_id": session.UserID,
		"role":     int(invite.Role),
	}).Info("employee invited")
	return Outcome{
		OK:     true,
		Toasts: []entity.Toast{s.messages.CreateEmployeeSuccess},
	}
}

// CompleteRegistration finishes an invitation using the token from the link.
// Failures surface as an inline expiry message, never as a toast.
func (s *Service) CompleteRegistration(ctx context.Context, reg entity.RegistrationCompletion) Outcome {
	logger := logrus.WithContext(ctx).WithField("workflow", metrics.WorkflowRegistration)
	failure := func(err error) Outcome {
		metrics.RecordSubmission(metrics.WorkflowRegistration, metrics.OutcomeFailure)
		logger.WithError(err).Warn("registration failed")
		return Outcome{Inline: s.messages.RegistrationExpired, Err: err}
	}

	token := strings.TrimSpace(reg.Token)
	if token == "" {
		return failure(errors.New("invitation token is empty"))
	}
	if auth.Expired(token, s.opts.Now()) {
		return failure(ErrInviteExpired)
	}

	status, err := s.api.CompleteRegistration(ctx, token, reg)
	if err != nil {
		return failure(err)
	}

	metrics.RecordSubmission(metrics.WorkflowRegistration, metrics.OutcomeSuccess)
	logger.WithField("status", status).Info("registration completed")
	out := Outcome{
		OK:     true,
		Toasts: []entity.Toast{s.messages.RegistrationSuccess},
	}
	if status == http.StatusOK {
		out.Redirect = RouteHome
	}
	return out
}
