/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the internal
  record types from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

WIRE NOTE:
  The deadlines payload uses the camelCase field names the mobile client
  already consumes ("dueDates", "membershipNumber"); everything else follows
  snake_case.
*/
package api

// =============================================================================
// AUTH
// =============================================================================

// RegisterRequest creates an account. Role defaults to "client".
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO is the public view of an account. Never carries the hash.
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// =============================================================================
// TAX PROFILE
// =============================================================================

// ProfileDTO mirrors the stored tax profile. MonthlyIncome travels as a
// string to keep decimal precision out of float64.
type ProfileDTO struct {
	EmploymentStatus string `json:"employment_status"`
	PhilHealthNumber string `json:"philhealth_number"`
	SSSNumber        string `json:"sss_number"`
	PagIBIGNumber    string `json:"pagibig_number"`
	MonthlyIncome    string `json:"monthly_income"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

// UpdateProfileRequest replaces the caller's profile.
type UpdateProfileRequest struct {
	EmploymentStatus string `json:"employment_status"`
	PhilHealthNumber string `json:"philhealth_number"`
	SSSNumber        string `json:"sss_number"`
	PagIBIGNumber    string `json:"pagibig_number"`
	MonthlyIncome    string `json:"monthly_income"`
}

// =============================================================================
// DEADLINES & CONTRIBUTIONS
// =============================================================================

// DueDateDTO is one upcoming contribution deadline.
type DueDateDTO struct {
	Agency           string `json:"agency"`
	Description      string `json:"description"`
	DueDate          string `json:"dueDate"` // ISO YYYY-MM-DD
	MembershipNumber string `json:"membershipNumber"`
}

// DueDatesResponse wraps the deadline list.
type DueDatesResponse struct {
	AsOf     string       `json:"asOf"`
	DueDates []DueDateDTO `json:"dueDates"`
}

// ContributionDTO is one agency's monthly remittance split, pesos as strings.
type ContributionDTO struct {
	Agency        string `json:"agency"`
	EmployeeShare string `json:"employee_share"`
	EmployerShare string `json:"employer_share"`
	Total         string `json:"total"`
}

// ContributionsResponse wraps the breakdown list.
type ContributionsResponse struct {
	MonthlyIncome string            `json:"monthly_income"`
	Contributions []ContributionDTO `json:"contributions"`
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// DocumentDTO is uploaded-document metadata.
type DocumentDTO struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Category    string `json:"category"`
	UploadedAt  string `json:"uploaded_at"`
}

// =============================================================================
// MESSAGES
// =============================================================================

// SendMessageRequest posts a message to another user.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

// MessageDTO is one message in a conversation.
type MessageDTO struct {
	ID          string  `json:"id"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Body        string  `json:"body"`
	SentAt      string  `json:"sent_at"`
	ReadAt      *string `json:"read_at,omitempty"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
