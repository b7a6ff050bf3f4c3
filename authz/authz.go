// Package authz decides which role may read, write or approve which module.
package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionApprove = "approve"
)

// ObjectUsers guards account management.
const ObjectUsers = "users"

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

// ParseMode validates raw. Disabled mode needs unsafeAllowDisabled so it
// cannot be switched on by accident.
func ParseMode(raw string, unsafeAllowDisabled bool) (Mode, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ModeEnforce, nil
	}
	switch Mode(raw) {
	case ModeEnforce, ModeShadow:
		return Mode(raw), nil
	case ModeDisabled:
		if !unsafeAllowDisabled {
			return "", errors.New("authz: AUTHZ_MODE=disabled requires AUTHZ_UNSAFE_ALLOW_DISABLED=1")
		}
		return ModeDisabled, nil
	default:
		return "", errors.New("authz: invalid AUTHZ_MODE (expected enforce|shadow|disabled)")
	}
}

type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
	logger   *zap.Logger
}

// NewAuthorizer loads the embedded model and policy.
func NewAuthorizer(mode Mode, logger *zap.Logger) (*Authorizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: load model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: new enforcer: %w", err)
	}

	policies, groupings, err := parsePolicy(policyText)
	if err != nil {
		return nil, err
	}
	if len(policies) > 0 {
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("authz: add policies: %w", err)
		}
	}
	if len(groupings) > 0 {
		if _, err := enforcer.AddGroupingPolicies(groupings); err != nil {
			return nil, fmt.Errorf("authz: add role inheritance: %w", err)
		}
	}

	return &Authorizer{enforcer: enforcer, mode: mode, logger: logger}, nil
}

func SubjectFromRole(role string) string {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		role = "anonymous"
	}
	return "role:" + role
}

func (a *Authorizer) Mode() Mode { return a.mode }

// Authorize reports whether subject may perform action on object. enforced
// is false when the decision is advisory only.
func (a *Authorizer) Authorize(subject, object, action string) (allowed bool, enforced bool, err error) {
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow:
		ok, err := a.enforcer.Enforce(subject, object, action)
		if err != nil {
			return false, false, err
		}
		if !ok {
			a.logger.Warn("authz shadow deny",
				zap.String("subject", subject),
				zap.String("object", object),
				zap.String("action", action))
		}
		return ok, false, nil
	case ModeEnforce:
		ok, err := a.enforcer.Enforce(subject, object, action)
		if err != nil {
			return false, true, err
		}
		return ok, true, nil
	default:
		return false, false, errors.New("authz: unknown mode")
	}
}

// Allowed collapses Authorize into the final decision: advisory denials pass.
func (a *Authorizer) Allowed(subject, object, action string) (bool, error) {
	ok, enforced, err := a.Authorize(subject, object, action)
	if err != nil {
		return false, err
	}
	return ok || !enforced, nil
}

func parsePolicy(text string) (policies, groupings [][]string, err error) {
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		switch {
		case parts[0] == "p" && len(parts) == 4:
			policies = append(policies, parts[1:])
		case parts[0] == "g" && len(parts) == 3:
			groupings = append(groupings, parts[1:])
		default:
			return nil, nil, fmt.Errorf("authz: policy line %d: malformed %q", i+1, line)
		}
	}
	return policies, groupings, nil
}
