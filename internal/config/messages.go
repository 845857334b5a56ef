package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hrportal/internal/entity"

	"gopkg.in/yaml.v3"
)

// Messages is the user-facing copy of the three workflows. Every entry can be
// overridden from a YAML file; missing entries keep their defaults.
type Messages struct {
	LoginSuccess          entity.Toast `yaml:"login_success"`
	LoginFailure          entity.Toast `yaml:"login_failure"`
	CreateEmployeeSuccess entity.Toast `yaml:"create_employee_success"`
	CreateEmployeeFailure entity.Toast `yaml:"create_employee_failure"`
	RegistrationSuccess   entity.Toast `yaml:"registration_success"`
	Logout                entity.Toast `yaml:"logout"`
	RegistrationExpired   string       `yaml:"registration_expired"`

	// Validation overrides keyed by "<field>.<rule>", e.g. "password.password".
	Validation map[string]string `yaml:"validation"`
	// Roles overrides the role picker labels keyed by role id.
	Roles map[int]string `yaml:"roles"`
}

// DefaultMessages returns the built-in copy.
func DefaultMessages() Messages {
	return Messages{
		LoginSuccess: entity.Toast{
			Title:    "Login Success",
			Status:   entity.ToastSuccess,
			Duration: 2 * time.Second,
		},
		LoginFailure: entity.Toast{
			Title:    "Email and password not match",
			Status:   entity.ToastError,
			Duration: 3 * time.Second,
		},
		CreateEmployeeSuccess: entity.Toast{
			Title:       "Created Employee Success,",
			Description: "Check the registered email to fill in the complete data",
			Status:      entity.ToastSuccess,
			Duration:    5 * time.Second,
		},
		CreateEmployeeFailure: entity.Toast{
			Title:       "Error",
			Description: "Create Employee failed, Email Already Registered",
			Status:      entity.ToastError,
			Duration:    5 * time.Second,
		},
		RegistrationSuccess: entity.Toast{
			Title:       "Success,",
			Description: "Registration successfully completed, please login",
			Status:      entity.ToastSuccess,
			Duration:    4 * time.Second,
		},
		Logout: entity.Toast{
			Title:    "Signed out",
			Status:   entity.ToastInfo,
			Duration: 2 * time.Second,
		},
		RegistrationExpired: "An error occurred, link validity period has expired, please contact admin.",
	}
}

// RoleLabel returns the picker label for a role, honouring overrides.
func (m Messages) RoleLabel(role entity.Role) string {
	if label, ok := m.Roles[int(role)]; ok && strings.TrimSpace(label) != "" {
		return label
	}
	return role.Label()
}

// LoadMessages reads overrides from path on top of DefaultMessages. An empty
// path returns the defaults.
func LoadMessages(path string) (Messages, error) {
	msgs := DefaultMessages()
	path = strings.TrimSpace(path)
	if path == "" {
		return msgs, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Messages{}, fmt.Errorf("read messages file: %w", err)
	}
	var overlay Messages
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Messages{}, fmt.Errorf("parse messages file %s: %w", path, err)
	}
	msgs.merge(overlay)
	return msgs, nil
}

func (m *Messages) merge(o Messages) {
	mergeToast(&m.LoginSuccess, o.LoginSuccess)
	mergeToast(&m.LoginFailure, o.LoginFailure)
	mergeToast(&m.CreateEmployeeSuccess, o.CreateEmployeeSuccess)
	mergeToast(&m.CreateEmployeeFailure, o.CreateEmployeeFailure)
	mergeToast(&m.RegistrationSuccess, o.RegistrationSuccess)
	mergeToast(&m.Logout, o.Logout)
	if strings.TrimSpace(o.RegistrationExpired) != "" {
		m.RegistrationExpired = o.RegistrationExpired
	}
	if len(o.Validation) > 0 {
		if m.Validation == nil {
			m.Validation = make(map[string]string, len(o.Validation))
		}
		for k, v := range o.Validation {
			m.Validation[k] = v
		}
	}
	if len(o.Roles) > 0 {
		if m.Roles == nil {
			m.Roles = make(map[int]string, len(o.Roles))
		}
		for k, v := range o.Roles {
			m.Roles[k] = v
		}
	}
}

func mergeToast(dst *entity.Toast, src entity.Toast) {
	if strings.TrimSpace(src.Title) != "" {
		dst.Title = src.Title
	}
	if strings.TrimSpace(src.Description) != "" {
		dst.Description = src.Description
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.Duration > 0 {
		dst.Duration = src.Duration
	}
}
