package models

import (
	"time"
)

// ApplicationStatus represents the current stage of a job application
type ApplicationStatus string

const (
	StatusApplied            ApplicationStatus = "APPLIED"
	StatusInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	StatusInterviewCompleted ApplicationStatus = "INTERVIEW_COMPLETED"
	StatusSelected           ApplicationStatus = "SELECTED"
	StatusRejected           ApplicationStatus = "REJECTED"
	StatusOfferReceived      ApplicationStatus = "OFFER_RECEIVED"
	StatusOfferAccepted      ApplicationStatus = "OFFER_ACCEPTED"
	StatusOfferDeclined      ApplicationStatus = "OFFER_DECLINED"
)

// ApplicationStatuses lists every status in pipeline order
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusInterviewScheduled,
	StatusInterviewCompleted,
	StatusSelected,
	StatusRejected,
	StatusOfferReceived,
	StatusOfferAccepted,
	StatusOfferDeclined,
}

// IsValid returns true if s is one of the known statuses
func (s ApplicationStatus) IsValid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the application can no longer progress
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusOfferAccepted || s == StatusOfferDeclined
}

// CompanyApplication represents a job application to a company
type CompanyApplication struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Salary    string            `json:"salary,omitempty"`
	Status    ApplicationStatus `json:"status"`
	Feedback  string            `json:"feedback,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// CompanyRequest is the body accepted when creating or replacing an application
type CompanyRequest struct {
	Name     string            `json:"name"`
	Salary   string            `json:"salary,omitempty"`
	Status   ApplicationStatus `json:"status,omitempty"`
	Feedback string            `json:"feedback,omitempty"`
}

// CompanyFilters defines filters for listing applications
type CompanyFilters struct {
	Search string
	Status ApplicationStatus
}
