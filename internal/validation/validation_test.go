package validation

import (
	"testing"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

func validLead() domain.LeadInput {
	return domain.LeadInput{
		FirstName:    "John",
		LastName:     "Doe",
		Email:        "john@example.com",
		MobileNo:     "1234567890",
		Province:     "Punjab",
		City:         "Lahore",
		LeadType:     domain.TypeSupport,
		LeadStatus:   domain.StatusOpen,
		LeadProgress: domain.ProgressNew,
	}
}

func TestSanitizeMobile(t *testing.T) {
	cases := map[string]string{
		"12a3":              "123",
		"(123) 456-7890":    "1234567890",
		"123456789012345":   "1234567890",
		"":                  "",
		"+92 300 1234567 8": "9230012345",
	}
	for in, want := range cases {
		if got := SanitizeMobile(in); got != want {
			t.Errorf("SanitizeMobile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLeadValid(t *testing.T) {
	if err := Lead(validLead()); err != nil {
		t.Fatalf("expected valid lead, got %v", err)
	}
}

func TestLeadNineDigitMobile(t *testing.T) {
	in := validLead()
	in.MobileNo = "123456789"
	verr, ok := As(Lead(in))
	if !ok {
		t.Fatalf("expected validation errors")
	}
	if got := verr.Get("mobileNo"); got != "Mobile number must be exactly 10 digits" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestLeadEmptyFormOrder(t *testing.T) {
	verr, ok := As(Lead(domain.LeadInput{LeadType: domain.TypeSales, LeadStatus: domain.StatusOpen, LeadProgress: domain.ProgressNew}))
	if !ok {
		t.Fatalf("expected validation errors")
	}
	want := []FieldError{
		{"firstName", "First name is required"},
		{"lastName", "Last name is required"},
		{"email", "Email is required"},
		{"mobileNo", "Mobile number is required"},
		{"province", "Province is required"},
		{"city", "City is required"},
	}
	got := verr.Fields()
	if len(got) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("error %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLeadInvalidEnums(t *testing.T) {
	in := validLead()
	in.Email = "not-an-email"
	in.LeadStatus = "Pending"
	in.LeadProgress = "Done"
	in.LeadType = "Other"
	verr, ok := As(Lead(in))
	if !ok {
		t.Fatalf("expected validation errors")
	}
	m := verr.Map()
	if m["email"] != "Email is invalid" || m["leadStatus"] != "Invalid lead status" ||
		m["leadProgress"] != "Invalid lead progress" || m["leadType"] != "Invalid lead type" {
		t.Fatalf("unexpected errors %v", m)
	}
}

func TestLeadUpdateAcceptsStoredEnums(t *testing.T) {
	in := validLead()
	in.LeadProgress = "Follow Up"
	in.LeadStatus = ""
	if err := LeadUpdate(in); err != nil {
		t.Fatalf("expected stored values accepted, got %v", err)
	}
	if err := Lead(in); err == nil {
		t.Fatalf("expected create validation to reject them")
	}

	in.City = " "
	verr, ok := As(LeadUpdate(in))
	if !ok || verr.Get("city") != "City is required" {
		t.Fatalf("expected required fields checked on update, got %v", verr)
	}
}

func TestLogin(t *testing.T) {
	if err := Login(LoginInput{Email: "a@b.co", Password: "12345", Tenant: "tenant1"}); err != nil {
		t.Fatalf("expected valid login, got %v", err)
	}
	verr, ok := As(Login(LoginInput{Email: "a@b", Password: "1234"}))
	if !ok {
		t.Fatalf("expected validation errors")
	}
	m := verr.Map()
	if m["email"] != "Email is invalid" || m["password"] != "Password must be at least 5 characters" || m["tenant"] != "Please select a tenant" {
		t.Fatalf("unexpected errors %v", m)
	}
	verr, _ = As(Login(LoginInput{Tenant: "tenant1"}))
	if verr.Get("email") != "Email is required" || verr.Get("password") != "Password is required" {
		t.Fatalf("unexpected errors %v", verr.Map())
	}
}

func TestRegister(t *testing.T) {
	ok := RegisterInput{FirstName: "Jo", LastName: "Li", Email: "jo@li.io", Password: "secret", ConfirmPassword: "secret", Tenant: "tenant1"}
	if err := Register(ok); err != nil {
		t.Fatalf("expected valid registration, got %v", err)
	}

	verr, isErr := As(Register(RegisterInput{FirstName: " J ", LastName: "", Email: "jo@li.io", Password: "secret", ConfirmPassword: "other"}))
	if !isErr {
		t.Fatalf("expected validation errors")
	}
	m := verr.Map()
	if m["firstName"] != "First name must be at least 2 characters" {
		t.Errorf("unexpected firstName message %q", m["firstName"])
	}
	if m["lastName"] != "Last name is required" {
		t.Errorf("unexpected lastName message %q", m["lastName"])
	}
	if m["confirmPassword"] != "Passwords do not match" {
		t.Errorf("unexpected confirmPassword message %q", m["confirmPassword"])
	}
	if m["selectedTenant"] != "Please select a tenant" {
		t.Errorf("unexpected tenant message %q", m["selectedTenant"])
	}

	verr, _ = As(Register(RegisterInput{FirstName: "Jo", LastName: "Li", Email: "jo@li.io", Password: "secret", Tenant: "tenant1"}))
	if verr.Get("confirmPassword") != "Please confirm your password" {
		t.Errorf("expected confirm prompt, got %v", verr.Map())
	}
}
