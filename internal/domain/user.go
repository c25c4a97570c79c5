package domain

// User statuses.
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
	UserStatusInvited  = "INVITED"
	UserStatusBlocked  = "BLOCKED"
)

// UserStatuses lists account states.
var UserStatuses = []string{UserStatusActive, UserStatusInactive, UserStatusInvited, UserStatusBlocked}

// User is a platform account (admin, developer, buyer).
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	Role     Ref    `json:"role"`
	Company  string `json:"company"`
	Audit
}
