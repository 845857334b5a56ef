package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"hrportal/internal/apiclient"
	"hrportal/internal/config"
	"hrportal/internal/entity"
	"hrportal/internal/entity/dto"
	"hrportal/internal/session"
	"hrportal/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts in order and records validation results.
type scriptedPrompter struct {
	inputs   []string
	selects  []int
	rejected []string
}

func (p *scriptedPrompter) Input(message string, _ bool, validate func(string) error) (string, error) {
	for len(p.inputs) > 0 {
		answer := p.inputs[0]
		p.inputs = p.inputs[1:]
		if validate == nil {
			return answer, nil
		}
		if err := validate(answer); err != nil {
			p.rejected = append(p.rejected, err.Error())
			continue
		}
		return answer, nil
	}
	return "", errors.New("no scripted answer for " + message)
}

func (p *scriptedPrompter) Select(message string, _ []string) (int, error) {
	if len(p.selects) == 0 {
		return 0, errors.New("no scripted choice for " + message)
	}
	idx := p.selects[0]
	p.selects = p.selects[1:]
	return idx, nil
}

type cliAPI struct {
	loginResp  *dto.LoginResponse
	loginErr   error
	createErr  error
	regStatus  int
	regErr     error
	bearer     string
	lastInvite entity.EmployeeInvite
}

func (f *cliAPI) Login(context.Context, entity.Credentials) (*dto.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *cliAPI) CreateEmployee(_ context.Context, token string, invite entity.EmployeeInvite) error {
	f.bearer = token
	f.lastInvite = invite
	return f.createErr
}

func (f *cliAPI) CompleteRegistration(_ context.Context, token string, _ entity.RegistrationCompletion) (int, error) {
	f.bearer = token
	return f.regStatus, f.regErr
}

func newTestApp(t *testing.T, api *cliAPI, p *scriptedPrompter) (*app, *bytes.Buffer, session.Store) {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	cfg := config.Config{SessionTTL: time.Hour, RejectUnsetRole: true}
	out := &bytes.Buffer{}
	a, err := newApp(cfg, api, store, p, out)
	require.NoError(t, err)
	return a, out, store
}

func TestLoginStoresToken(t *testing.T) {
	api := &cliAPI{loginResp: &dto.LoginResponse{Token: "t1", User: dto.LoginUser{ID: 7, RoleID: 1}}}
	p := &scriptedPrompter{inputs: []string{"bad-email", "a@b.com", "weak", "Abcdef1!"}}
	a, out, store := newTestApp(t, api, p)

	require.NoError(t, a.run(context.Background(), []string{"login"}))

	require.Len(t, p.rejected, 2)
	assert.Equal(t, "Invalid email", p.rejected[0])
	assert.Contains(t, out.String(), "[SUCCESS] Login Success")
	assert.Contains(t, out.String(), "/menu-employee/7")

	rec, err := store.Get(context.Background(), cliSessionID)
	require.NoError(t, err)
	assert.Equal(t, "t1", rec.Session.Token)
}

func TestLoginFailureKeepsNoToken(t *testing.T) {
	api := &cliAPI{loginErr: &apiclient.StatusError{StatusCode: http.StatusUnauthorized}}
	p := &scriptedPrompter{inputs: []string{"Abcdef1!"}}
	a, out, store := newTestApp(t, api, p)

	err := a.run(context.Background(), []string{"login", "--email", "a@b.com"})
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out.String(), "[ERROR] Email and password not match")

	_, err = store.Get(context.Background(), cliSessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCreateEmployeeRequiresLogin(t *testing.T) {
	a, out, _ := newTestApp(t, &cliAPI{}, &scriptedPrompter{})
	err := a.run(context.Background(), []string{"create-employee"})
	require.ErrorIs(t, err, workflow.ErrNoSession)
	assert.Contains(t, out.String(), "hrctl login")
}

func TestCreateEmployee(t *testing.T) {
	api := &cliAPI{}
	p := &scriptedPrompter{inputs: []string{"new@corp.com", "abc", "1000", "25"}, selects: []int{1}}
	a, out, store := newTestApp(t, api, p)
	require.NoError(t, store.Save(context.Background(), &session.Record{
		ID:        cliSessionID,
		Session:   &entity.Session{Token: "admin-token", UserID: 1, Role: entity.RoleAdmin},
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, a.run(context.Background(), []string{"create-employee"}))
	assert.Equal(t, "admin-token", api.bearer)
	assert.Equal(t, entity.EmployeeInvite{Email: "new@corp.com", Role: entity.RoleNightShift, BaseSalary: 1000, DaySalary: 25}, api.lastInvite)
	assert.Equal(t, []string{"Base Salary must be a number"}, p.rejected)
	assert.Contains(t, out.String(), "Created Employee Success,")
}

func TestCreateEmployeeDuplicateFromFlags(t *testing.T) {
	api := &cliAPI{createErr: &apiclient.StatusError{StatusCode: http.StatusConflict}}
	a, out, store := newTestApp(t, api, &scriptedPrompter{})
	require.NoError(t, store.Save(context.Background(), &session.Record{
		ID:        cliSessionID,
		Session:   &entity.Session{Token: "admin-token", Role: entity.RoleAdmin},
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	err := a.run(context.Background(), []string{"create-employee",
		"--email", "dup@corp.com", "--role", "1", "--base-salary", "10", "--day-salary", "1"})
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out.String(), "Email Already Registered")
}

func TestRegister(t *testing.T) {
	api := &cliAPI{regStatus: http.StatusOK}
	p := &scriptedPrompter{inputs: []string{"Jane Doe", "1990-01-02", "jane", "Abcdef1!"}}
	a, out, _ := newTestApp(t, api, p)

	require.NoError(t, a.run(context.Background(), []string{"register", "--token", "invite"}))
	assert.Equal(t, "invite", api.bearer)
	assert.Contains(t, out.String(), "Registration successfully completed, please login")
	assert.Contains(t, out.String(), "next: hrctl login")
}

func TestRegisterFailurePrintsInline(t *testing.T) {
	api := &cliAPI{regErr: &apiclient.StatusError{StatusCode: http.StatusUnauthorized}}
	p := &scriptedPrompter{inputs: []string{"Jane Doe", "1990-01-02", "jane", "Abcdef1!"}}
	a, out, _ := newTestApp(t, api, p)

	err := a.run(context.Background(), []string{"register", "--token", "invite"})
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out.String(), "link validity period has expired")
	assert.NotContains(t, out.String(), "[")
}

func TestRegisterRequiresToken(t *testing.T) {
	a, _, _ := newTestApp(t, &cliAPI{}, &scriptedPrompter{})
	require.ErrorIs(t, a.run(context.Background(), []string{"register"}), errFailed)
}

func TestLogout(t *testing.T) {
	a, out, store := newTestApp(t, &cliAPI{}, &scriptedPrompter{})
	require.NoError(t, store.Save(context.Background(), &session.Record{ID: cliSessionID, ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, a.run(context.Background(), []string{"logout"}))
	assert.Contains(t, out.String(), "[INFO] Signed out")
	_, err := store.Get(context.Background(), cliSessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestUnknownCommand(t *testing.T) {
	a, out, _ := newTestApp(t, &cliAPI{}, &scriptedPrompter{})
	require.ErrorIs(t, a.run(context.Background(), []string{"dance"}), errFailed)
	assert.Contains(t, out.String(), "usage: hrctl")
}
