package domain

// Request types and statuses.
const (
	RequestTypeConsultation    = "CONSULTATION"
	RequestTypeMoreInformation = "MORE_INFORMATION"
	RequestTypeContactUs       = "CONTACT_US"

	RequestStatusNew        = "NEW"
	RequestStatusInProgress = "IN_PROGRESS"
	RequestStatusCompleted  = "COMPLETED"
)

var (
	RequestTypes    = []string{RequestTypeConsultation, RequestTypeMoreInformation, RequestTypeContactUs}
	RequestStatuses = []string{RequestStatusNew, RequestStatusInProgress, RequestStatusCompleted}
)

// Request is an inquiry submitted against a lead, e.g. a consultation request
// for a specific residence.
type Request struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	EntityID string `json:"entityId"`
	Lead     struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	} `json:"lead"`
	Audit
}
