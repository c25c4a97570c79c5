package domain

// Lead statuses as reported by the backend.
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusWon       = "WON"
	LeadStatusLost      = "LOST"
	LeadStatusInactive  = "INACTIVE"
)

// LeadStatuses lists lead statuses in pipeline order.
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusWon,
	LeadStatusLost,
	LeadStatusInactive,
}

// Lead is a prospective buyer captured by one of the marketing site forms.
type Lead struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Status            string `json:"status"`
	Source            string `json:"source"`
	PreferredContacts string `json:"preferredContactMethod"`
	Audit
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	default:
		return l.FirstName + " " + l.LastName
	}
}
