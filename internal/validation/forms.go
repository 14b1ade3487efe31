package validation

import (
	"strings"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

// MinPasswordLength applies to login and registration
const MinPasswordLength = 5

type leadForm struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,looseemail"`
	MobileNo     string `json:"mobileNo" validate:"required,mobile10"`
	Province     string `json:"province" validate:"required"`
	City         string `json:"city" validate:"required"`
	LeadType     string `json:"leadType" validate:"leadtype"`
	LeadStatus   string `json:"leadStatus" validate:"leadstatus"`
	LeadProgress string `json:"leadProgress" validate:"leadprogress"`
}

var leadMessages = messages{
	"firstName.required":        "First name is required",
	"lastName.required":         "Last name is required",
	"email.required":            "Email is required",
	"email.looseemail":          "Email is invalid",
	"mobileNo.required":         "Mobile number is required",
	"mobileNo.mobile10":         "Mobile number must be exactly 10 digits",
	"province.required":         "Province is required",
	"city.required":             "City is required",
	"leadType.leadtype":         "Invalid lead type",
	"leadStatus.leadstatus":     "Invalid lead status",
	"leadProgress.leadprogress": "Invalid lead progress",
}

// Lead validates a lead form. It returns nil or *Errors.
func Lead(in domain.LeadInput) error {
	return check(leadForm{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		MobileNo:     in.MobileNo,
		Province:     strings.TrimSpace(in.Province),
		City:         strings.TrimSpace(in.City),
		LeadType:     string(in.LeadType),
		LeadStatus:   string(in.LeadStatus),
		LeadProgress: string(in.LeadProgress),
	}, leadMessages)
}

type leadUpdateForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,looseemail"`
	MobileNo  string `json:"mobileNo" validate:"required,mobile10"`
	Province  string `json:"province" validate:"required"`
	City      string `json:"city" validate:"required"`
}

// LeadUpdate validates an edit of an existing lead. Type, status and progress
// are taken as stored by the backend, which may hold values outside the
// create form's choices.
func LeadUpdate(in domain.LeadInput) error {
	return check(leadUpdateForm{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		MobileNo:  in.MobileNo,
		Province:  strings.TrimSpace(in.Province),
		City:      strings.TrimSpace(in.City),
	}, leadMessages)
}

// LoginInput is the login form
type LoginInput struct {
	Email    string `json:"email" validate:"required,looseemail"`
	Password string `json:"password" validate:"required,min=5"`
	Tenant   string `json:"tenant" validate:"required"`
}

var loginMessages = messages{
	"email.required":    "Email is required",
	"email.looseemail":  "Email is invalid",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 5 characters",
	"tenant.required":   "Please select a tenant",
}

// Login validates the login form
func Login(in LoginInput) error {
	in.Email = strings.TrimSpace(in.Email)
	return check(in, loginMessages)
}

// RegisterInput is the registration form
type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,looseemail"`
	Password        string `json:"password" validate:"required,min=5"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Tenant          string `json:"selectedTenant" validate:"required"`
}

var registerMessages = messages{
	"firstName.required":       "First name is required",
	"firstName.min":            "First name must be at least 2 characters",
	"lastName.required":        "Last name is required",
	"lastName.min":             "Last name must be at least 2 characters",
	"email.required":           "Email is required",
	"email.looseemail":         "Email is invalid",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 5 characters",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
	"selectedTenant.required":  "Please select a tenant",
}

// Register validates the registration form. Names are trimmed first.
func Register(in RegisterInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	return check(in, registerMessages)
}
