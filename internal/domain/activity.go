package domain

import "time"

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryResponded InquiryStatus = "responded"
	InquiryClosed    InquiryStatus = "closed"
)

type Inquiry struct {
	ID         string        `json:"id"`
	PropertyID string        `json:"propertyId"`
	UserID     string        `json:"userId,omitempty"` // empty for guests
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone,omitempty"`
	Message    string        `json:"message"`
	CreatedAt  time.Time     `json:"createdAt"`
	Status     InquiryStatus `json:"status"`
}

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Avatar          string   `json:"avatar"`
	Role            Role     `json:"role"`
	SavedProperties []string `json:"savedProperties"`
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// ListingSubmission is a seller's "add property" request awaiting review.
// Submissions never enter the catalog.
type ListingSubmission struct {
	ID            string           `json:"id"`
	SubmittedBy   string           `json:"submittedBy,omitempty"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	Type          ListingKind      `json:"type"`
	PropertyType  PropertyType     `json:"propertyType"`
	Bedrooms      int              `json:"bedrooms"`
	Bathrooms     int              `json:"bathrooms"`
	SquareFootage float64          `json:"squareFootage"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	Neighborhood  string           `json:"neighborhood"`
	Furnished     bool             `json:"furnished"`
	Features      []string         `json:"features"`
	Images        []string         `json:"images"`
	Status        SubmissionStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result is the outcome of an accepted command.
type Result struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
