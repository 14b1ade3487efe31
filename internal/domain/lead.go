package domain

import "context"

// LeadStatus is the lifecycle state of a lead
type LeadStatus string

const (
	StatusOpen      LeadStatus = "Open"
	StatusConverted LeadStatus = "Converted"
	StatusRejected  LeadStatus = "Rejected"
	StatusDiscarded LeadStatus = "Discarded"
)

// LeadStatuses lists every status in display order
var LeadStatuses = []LeadStatus{StatusOpen, StatusConverted, StatusRejected, StatusDiscarded}

// Valid reports whether s is a known status
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// LeadProgress is a stage in the sales pipeline
type LeadProgress string

const (
	ProgressNew          LeadProgress = "New Lead Entry"
	ProgressContacted    LeadProgress = "Contacted"
	ProgressQualified    LeadProgress = "Qualified"
	ProgressProposalSent LeadProgress = "Proposal Sent"
	ProgressNegotiation  LeadProgress = "Negotiation"
	ProgressClosedWon    LeadProgress = "Closed Won"
	ProgressClosedLost   LeadProgress = "Closed Lost"
)

// LeadPipeline is the ordered list of progress stages
var LeadPipeline = []LeadProgress{
	ProgressNew,
	ProgressContacted,
	ProgressQualified,
	ProgressProposalSent,
	ProgressNegotiation,
	ProgressClosedWon,
	ProgressClosedLost,
}

// ProgressIndex returns the position of p in the pipeline, or -1
func ProgressIndex(p LeadProgress) int {
	for i, v := range LeadPipeline {
		if v == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a pipeline stage
func (p LeadProgress) Valid() bool {
	return ProgressIndex(p) >= 0
}

// LeadType classifies what the lead is asking for
type LeadType string

const (
	TypeSupport      LeadType = "Support"
	TypeSales        LeadType = "Sales"
	TypeConsultation LeadType = "Consultation"
)

// LeadTypes lists every lead type
var LeadTypes = []LeadType{TypeSupport, TypeSales, TypeConsultation}

// Valid reports whether t is a known lead type
func (t LeadType) Valid() bool {
	for _, v := range LeadTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Lead is a contact record as returned by the backend
type Lead struct {
	ID               string       `json:"_id,omitempty"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Email            string       `json:"email"`
	MobileNo         string       `json:"mobileNo"`
	LandlineNo       string       `json:"landlineNo,omitempty"`
	Province         string       `json:"province"`
	City             string       `json:"city"`
	LeadType         LeadType     `json:"leadType"`
	LeadStatus       LeadStatus   `json:"leadStatus"`
	LeadProgress     LeadProgress `json:"leadProgress"`
	AllocatorRemarks string       `json:"allocatorRemarks,omitempty"`
	UserRemarks      string       `json:"userRemarks,omitempty"`
	AppointmentDate  string       `json:"appointmentDate,omitempty"`
	CreatedAt        string       `json:"createdAt,omitempty"`
	UpdatedAt        string       `json:"updatedAt,omitempty"`
	Version          int          `json:"__v,omitempty"`
}

// FullName joins first and last name
func (l *Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// LeadInput carries the mutable fields of a lead for create and update
type LeadInput struct {
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Email            string       `json:"email"`
	MobileNo         string       `json:"mobileNo"`
	LandlineNo       string       `json:"landlineNo"`
	Province         string       `json:"province"`
	City             string       `json:"city"`
	LeadType         LeadType     `json:"leadType"`
	LeadStatus       LeadStatus   `json:"leadStatus"`
	LeadProgress     LeadProgress `json:"leadProgress"`
	AllocatorRemarks string       `json:"allocatorRemarks"`
	UserRemarks      string       `json:"userRemarks"`
	AppointmentDate  string       `json:"appointmentDate"`
}

// InputFromLead copies the editable fields of an existing lead
func InputFromLead(l *Lead) LeadInput {
	date := l.AppointmentDate
	if len(date) >= 10 {
		date = date[:10]
	}
	return LeadInput{
		FirstName:        l.FirstName,
		LastName:         l.LastName,
		Email:            l.Email,
		MobileNo:         l.MobileNo,
		LandlineNo:       l.LandlineNo,
		Province:         l.Province,
		City:             l.City,
		LeadType:         l.LeadType,
		LeadStatus:       l.LeadStatus,
		LeadProgress:     l.LeadProgress,
		AllocatorRemarks: l.AllocatorRemarks,
		UserRemarks:      l.UserRemarks,
		AppointmentDate:  date,
	}
}

// LeadFilters are backend query parameters for listing leads
type LeadFilters struct {
	Search       string
	LeadStatus   string
	LeadType     string
	LeadProgress string
	Province     string
	City         string
}

// Filter keys as sent on the query string
const (
	FilterSearch       = "search"
	FilterLeadStatus   = "leadStatus"
	FilterLeadType     = "leadType"
	FilterLeadProgress = "leadProgress"
	FilterProvince     = "province"
	FilterCity         = "city"
)

// FilterKeys lists filter keys in display order
var FilterKeys = []string{FilterSearch, FilterLeadStatus, FilterLeadType, FilterLeadProgress, FilterProvince, FilterCity}

// Get returns the value stored under a filter key
func (f LeadFilters) Get(key string) string {
	switch key {
	case FilterSearch:
		return f.Search
	case FilterLeadStatus:
		return f.LeadStatus
	case FilterLeadType:
		return f.LeadType
	case FilterLeadProgress:
		return f.LeadProgress
	case FilterProvince:
		return f.Province
	case FilterCity:
		return f.City
	}
	return ""
}

// With returns a copy with key set to value; unknown keys are ignored
func (f LeadFilters) With(key, value string) LeadFilters {
	switch key {
	case FilterSearch:
		f.Search = value
	case FilterLeadStatus:
		f.LeadStatus = value
	case FilterLeadType:
		f.LeadType = value
	case FilterLeadProgress:
		f.LeadProgress = value
	case FilterProvince:
		f.Province = value
	case FilterCity:
		f.City = value
	}
	return f
}

// IsEmpty reports whether no filter is set
func (f LeadFilters) IsEmpty() bool {
	for _, k := range FilterKeys {
		if f.Get(k) != "" {
			return false
		}
	}
	return true
}

// LeadService defines lead operations against the backend
type LeadService interface {
	List(ctx context.Context, tenant string, filters LeadFilters) []Lead
	Create(ctx context.Context, tenant string, input LeadInput) (*Lead, error)
	Update(ctx context.Context, tenant, id string, input LeadInput) (*Lead, error)
}
