package domain

import "time"

type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
)

// KnownStatuses lists every status an application can carry.
var KnownStatuses = []ApplicationStatus{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application is one vendor empanelment request.
// Invariant: IsDraft == true implies Status == draft and SubmittedAt == nil.
type Application struct {
	ID            int64  `json:"id"`
	ApplicationID string `json:"application_id"`

	Department             string `json:"department" validate:"required"`
	ItemCategory           string `json:"item_category" validate:"required"`
	ItemName               string `json:"item_name" validate:"required"`
	ItemDescription        string `json:"item_description" validate:"required"`
	TechnicalSpecs         string `json:"technical_specs" validate:"required"`
	ComplianceRequirements string `json:"compliance_requirements" validate:"required"`

	EstimatedValue     string `json:"estimated_value,omitempty"`
	DeliveryTimeline   string `json:"delivery_timeline,omitempty"`
	PreviousExperience string `json:"previous_experience,omitempty"`
	Certifications     string `json:"certifications,omitempty"`

	Status  ApplicationStatus `json:"status"`
	IsDraft bool              `json:"is_draft"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (a *Application) Draft() bool {
	return a.Status == StatusDraft
}
