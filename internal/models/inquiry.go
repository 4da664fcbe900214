package models

// ContactRequest is a public contact form submission relayed to the admin inbox.
type ContactRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,formemail"`
	Type       string `json:"type"`
	Subject    string `json:"subject" validate:"required"`
	Message    string `json:"message" validate:"required,max=280"`
	Newsletter bool   `json:"newsletter"`
}

// EnrollInquiryRequest is a prospective student's enrollment request.
type EnrollInquiryRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,formemail"`
	PhoneNumber string   `json:"phoneNumber" validate:"required,min=10"`
	Curricula   []string `json:"curricula"`
	Subjects    []string `json:"subjects"`
}

// InquiryResult acknowledges a relayed form.
type InquiryResult struct {
	Success bool `json:"success"`
}
