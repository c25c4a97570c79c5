package domain

// B2B submission statuses.
const (
	B2BStatusNew       = "NEW"
	B2BStatusContacted = "CONTACTED"
	B2BStatusConverted = "CONVERTED"
	B2BStatusRejected  = "REJECTED"
)

// B2BStatuses lists B2B pipeline states.
var B2BStatuses = []string{B2BStatusNew, B2BStatusContacted, B2BStatusConverted, B2BStatusRejected}

// B2BSubmission is a partnership inquiry from a developer or brand.
type B2BSubmission struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompanyName   string `json:"companyName"`
	Email         string `json:"email"`
	Phone         string `json:"phoneNumber"`
	WebsiteURL    string `json:"websiteUrl"`
	Status        string `json:"status"`
	PageOrigin    string `json:"pageOrigin"`
	BrandedExists bool   `json:"brandedResidencesExists"`
	Audit
}
