package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"hrportal/internal/config"
	"hrportal/internal/entity"
	"hrportal/internal/form"
	"hrportal/internal/session"
	"hrportal/internal/validation"
	"hrportal/internal/workflow"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// cliSessionID names the single record the terminal client keeps.
const cliSessionID = "hrctl"

var errFailed = errors.New("command failed")

type app struct {
	service   *workflow.Service
	validator *validation.Validator
	store     session.Store
	prompt    prompter
	out       io.Writer
	ttl       time.Duration
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errFailed
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "create-employee":
		return a.createEmployee(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command %q\n", cmd)
		a.usage()
		return errFailed
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.out, `usage: hrctl <command> [flags]

commands:
  login              sign in and remember the token
  create-employee    invite an employee (admin)
  register --token   complete an invitation
  logout             forget the stored token`)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctrl := form.NewController[form.LoginForm](a.validator)
	if err := a.fill(ctrl, []field{
		{name: "email", message: "Email", preset: *email},
		{name: "password", message: "Password", secret: true},
	}); err != nil {
		return err
	}

	var out workflow.Outcome
	err := ctrl.Submit(ctx, func(ctx context.Context, f form.LoginForm) error {
		out = a.service.Login(ctx, f.Credentials())
		return out.Err
	})
	if a.reportInvalid(err) {
		return errFailed
	}
	a.printToasts(out.Toasts)
	if !out.OK {
		return errFailed
	}

	rec := &session.Record{
		ID:        cliSessionID,
		Session:   out.Session,
		ExpiresAt: time.Now().Add(a.ttl),
	}
	if err := a.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if out.Session.Role.IsAdmin() {
		fmt.Fprintln(a.out, "next: hrctl create-employee")
	} else {
		fmt.Fprintf(a.out, "signed in, menu: %s\n", out.Redirect)
	}
	return nil
}

func (a *app) createEmployee(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("create-employee", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "employee email")
	role := fs.Int("role", 0, "role id: 1 morning shift, 2 night shift, 3 admin")
	base := fs.String("base-salary", "", "base salary")
	day := fs.String("day-salary", "", "day salary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := a.currentSession(ctx)
	if err != nil {
		return err
	}

	ctrl := form.NewController[form.EmployeeForm](a.validator)
	fields := []field{{name: "email", message: "Email", preset: *email}}
	if *role != 0 {
		fields = append(fields, field{name: "roleID", preset: strconv.Itoa(*role)})
	} else {
		fields = append(fields, field{name: "roleID", message: "Role", choices: roleChoices()})
	}
	fields = append(fields,
		field{name: "baseSalary", message: "Base Salary", preset: *base},
		field{name: "daySalary", message: "Day Salary", preset: *day},
	)
	if err := a.fill(ctrl, fields); err != nil {
		return err
	}

	var out workflow.Outcome
	err = ctrl.Submit(ctx, func(ctx context.Context, f form.EmployeeForm) error {
		invite, err := f.Invite()
		if err != nil {
			return err
		}
		out = a.service.CreateEmployee(ctx, current, invite)
		return out.Err
	})
	if a.reportInvalid(err) {
		return errFailed
	}
	if errors.Is(err, workflow.ErrNoSession) {
		fmt.Fprintln(a.out, "session expired, run: hrctl login")
		return errFailed
	}
	a.printToasts(out.Toasts)
	if !out.OK {
		return errFailed
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	token := fs.String("token", "", "token from the invitation link")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*token) == "" {
		fmt.Fprintln(a.out, "--token is required")
		return errFailed
	}

	ctrl := form.NewController[form.RegistrationForm](a.validator)
	if err := a.fill(ctrl, []field{
		{name: "fullname", message: "Full Name"},
		{name: "birthday", message: "Birthday (YYYY-MM-DD)"},
		{name: "username", message: "Username"},
		{name: "password", message: "Password", secret: true},
	}); err != nil {
		return err
	}

	var out workflow.Outcome
	err := ctrl.Submit(ctx, func(ctx context.Context, f form.RegistrationForm) error {
		out = a.service.CompleteRegistration(ctx, f.Completion(*token))
		return out.Err
	})
	if a.reportInvalid(err) {
		return errFailed
	}
	if out.Inline != "" {
		fmt.Fprintln(a.out, out.Inline)
	}
	a.printToasts(out.Toasts)
	if !out.OK {
		return errFailed
	}
	if out.Redirect != "" {
		fmt.Fprintln(a.out, "next: hrctl login")
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.store.Delete(ctx, cliSessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	a.printToasts([]entity.Toast{a.service.Messages().Logout})
	return nil
}

func (a *app) currentSession(ctx context.Context) (*entity.Session, error) {
	rec, err := a.store.Get(ctx, cliSessionID)
	if errors.Is(err, session.ErrNotFound) || (err == nil && rec.Session == nil) {
		fmt.Fprintln(a.out, "not signed in, run: hrctl login")
		return nil, fmt.Errorf("%w: %w", errFailed, workflow.ErrNoSession)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return rec.Session, nil
}

// field describes one prompt. A preset skips the prompt; choices turn it into
// a selection whose answer is the choice value.
type field struct {
	name    string
	message string
	preset  string
	secret  bool
	choices []choice
}

type choice struct {
	label string
	value string
}

func roleChoices() []choice {
	out := make([]choice, 0, len(entity.AssignableRoles))
	for _, role := range entity.AssignableRoles {
		out = append(out, choice{label: role.Label(), value: strconv.Itoa(int(role))})
	}
	return out
}

type fillable interface {
	Set(name, value string) error
	Check(name, value string) string
}

func (a *app) fill(ctrl fillable, fields []field) error {
	for _, f := range fields {
		value := f.preset
		switch {
		case value != "":
		case len(f.choices) > 0:
			labels := make([]string, len(f.choices))
			for i, c := range f.choices {
				labels[i] = c.label
			}
			idx, err := a.prompt.Select(f.message, labels)
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(f.choices) {
				return fmt.Errorf("invalid choice %d", idx)
			}
			value = f.choices[idx].value
		default:
			name := f.name
			answer, err := a.prompt.Input(f.message, f.secret, func(s string) error {
				if msg := ctrl.Check(name, s); msg != "" {
					return errors.New(msg)
				}
				return nil
			})
			if err != nil {
				return err
			}
			value = answer
		}
		if err := ctrl.Set(f.name, value); err != nil {
			return err
		}
	}
	return nil
}

// reportInvalid prints field errors and reports whether err was a
// validation failure.
func (a *app) reportInvalid(err error) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.out, "%s: %s\n", name, verr.Fields[name])
	}
	return true
}

func (a *app) printToasts(toasts []entity.Toast) {
	for _, t := range toasts {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(t.Status)), t.Title)
		if t.Description != "" {
			line += " " + t.Description
		}
		fmt.Fprintln(a.out, line)
	}
}

func newApp(cfg config.Config, api workflow.API, store session.Store, p prompter, out io.Writer) (*app, error) {
	messages, err := config.LoadMessages(cfg.MessagesFile)
	if err != nil {
		return nil, err
	}
	logrus.WithField("session_file", cfg.SessionFile).Debug("hrctl starting")
	return &app{
		service: workflow.NewService(api, messages,
			workflow.WithLegacyLoginErrorToast(cfg.LegacyLoginErrorToast),
		),
		validator: validation.New(
			validation.WithRejectUnsetRole(cfg.RejectUnsetRole),
			validation.WithMessages(messages.Validation),
		),
		store:  store,
		prompt: p,
		out:    out,
		ttl:    cfg.SessionTTL,
	}, nil
}
