package validators

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"onboardhq-backend/domain/config"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// PreHireValidator validates pre-hire input before it reaches the entity.
// Entities enforce invariants too; this catches bad input early with
// per-field messages suitable for API responses.
type PreHireValidator struct {
	cfg         *config.DomainConfig
	namePattern *regexp.Regexp
	departments []string
}

// NewPreHireValidator creates a validator with default rules
func NewPreHireValidator() *PreHireValidator {
	return NewPreHireValidatorWithConfig(config.DefaultDomainConfig())
}

// NewPreHireValidatorWithConfig creates a validator with explicit configuration
func NewPreHireValidatorWithConfig(cfg *config.DomainConfig) *PreHireValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PreHireValidator{
		cfg:         cfg,
		namePattern: regexp.MustCompile(`^[\p{L}\p{M}' .-]+$`),
		departments: []string{}, // empty means any department is accepted
	}
}

// RestrictDepartments limits accepted departments to the given list
func (v *PreHireValidator) RestrictDepartments(departments []string) {
	v.departments = departments
}

// ValidateNew validates the fields of a pre-hire being created
func (v *PreHireValidator) ValidateNew(name, email, department string, startDate time.Time) error {
	fields := map[string]string{}

	if msg := v.validateName(name); msg != "" {
		fields["name"] = msg
	}
	if msg := v.validateDepartment(department); msg != "" {
		fields["department"] = msg
	}
	if msg := v.validateStartDate(startDate); msg != "" {
		fields["start_date"] = msg
	}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "email is required"
	}

	if len(fields) > 0 {
		details := make(map[string]interface{}, len(fields))
		for k, m := range fields {
			details[k] = m
		}
		return pkgerrors.NewValidationError("invalid pre-hire").WithDetails(details)
	}

	return nil
}

func (v *PreHireValidator) validateName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) < v.cfg.MinNameLength {
		return "name is required"
	}
	if len(name) > v.cfg.MaxNameLength {
		return fmt.Sprintf("name exceeds %d characters", v.cfg.MaxNameLength)
	}
	if !v.namePattern.MatchString(name) {
		return "name contains invalid characters"
	}
	return ""
}

func (v *PreHireValidator) validateDepartment(department string) string {
	if department == "" {
		return "department is required"
	}
	if len(v.departments) == 0 {
		return ""
	}
	for _, d := range v.departments {
		if strings.EqualFold(d, department) {
			return ""
		}
	}
	return fmt.Sprintf("unknown department: %s", department)
}

func (v *PreHireValidator) validateStartDate(startDate time.Time) string {
	if startDate.IsZero() {
		return "start_date is required"
	}
	now := time.Now()
	if !v.cfg.AllowPastStartDates && startDate.Before(now.Truncate(24*time.Hour)) {
		return "start_date cannot be in the past"
	}
	if startDate.After(now.AddDate(0, 0, v.cfg.MaxLeadDays)) {
		return fmt.Sprintf("start_date is more than %d days out", v.cfg.MaxLeadDays)
	}
	return ""
}
