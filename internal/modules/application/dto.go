package application

import "empanelment/internal/domain"

type CreateRequest struct {
	Department             string `json:"department" validate:"required"`
	ItemCategory           string `json:"item_category" validate:"required"`
	ItemName               string `json:"item_name" validate:"required"`
	ItemDescription        string `json:"item_description" validate:"required"`
	TechnicalSpecs         string `json:"technical_specs" validate:"required"`
	ComplianceRequirements string `json:"compliance_requirements" validate:"required"`

	EstimatedValue     string `json:"estimated_value"`
	DeliveryTimeline   string `json:"delivery_timeline"`
	PreviousExperience string `json:"previous_experience"`
	Certifications     string `json:"certifications"`

	IsDraft bool `json:"is_draft"`
}

// UpdateRequest is a partial patch; nil fields are left untouched.
type UpdateRequest struct {
	Department             *string `json:"department"`
	ItemCategory           *string `json:"item_category"`
	ItemName               *string `json:"item_name"`
	ItemDescription        *string `json:"item_description"`
	TechnicalSpecs         *string `json:"technical_specs"`
	ComplianceRequirements *string `json:"compliance_requirements"`
	EstimatedValue         *string `json:"estimated_value"`
	DeliveryTimeline       *string `json:"delivery_timeline"`
	PreviousExperience     *string `json:"previous_experience"`
	Certifications         *string `json:"certifications"`
	Status                 *string `json:"status"`
	Remarks                *string `json:"remarks"`
}

func (r UpdateRequest) patch() map[string]any {
	p := make(map[string]any)
	set := func(column string, v *string) {
		if v != nil {
			p[column] = *v
		}
	}
	set("department", r.Department)
	set("item_category", r.ItemCategory)
	set("item_name", r.ItemName)
	set("item_description", r.ItemDescription)
	set("technical_specs", r.TechnicalSpecs)
	set("compliance_requirements", r.ComplianceRequirements)
	set("estimated_value", r.EstimatedValue)
	set("delivery_timeline", r.DeliveryTimeline)
	set("previous_experience", r.PreviousExperience)
	set("certifications", r.Certifications)
	set("status", r.Status)
	return p
}

type ListRequest struct {
	Department string
	Status     string
	Page       int
	Limit      int
}

// ApplicationWithFiles is the detail-view shape: the record plus its
// attachments.
type ApplicationWithFiles struct {
	domain.Application
	Files []domain.ApplicationFile `json:"files"`
}
