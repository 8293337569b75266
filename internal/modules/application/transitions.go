package application

import "empanelment/internal/domain"

// TransitionValidator decides whether an update may move an application
// between two statuses. The hook exists so a stricter policy can be layered
// without touching the service.
type TransitionValidator func(from, to domain.ApplicationStatus) error

// PermissiveTransitions accepts any known status, matching the historical
// behavior where reviewers could correct a record administratively.
func PermissiveTransitions(_, to domain.ApplicationStatus) error {
	if !to.Valid() {
		return ErrUnknownStatus
	}
	return nil
}

var reviewGraph = map[domain.ApplicationStatus][]domain.ApplicationStatus{
	domain.StatusDraft:       {domain.StatusSubmitted},
	domain.StatusSubmitted:   {domain.StatusUnderReview},
	domain.StatusUnderReview: {domain.StatusApproved, domain.StatusRejected},
}

// StrictTransitions enforces draft -> submitted -> under_review ->
// {approved, rejected}. Setting the current status again is a no-op and
// allowed.
func StrictTransitions(from, to domain.ApplicationStatus) error {
	if !to.Valid() {
		return ErrUnknownStatus
	}
	if from == to {
		return nil
	}
	for _, next := range reviewGraph[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// ValidatorForPolicy maps the configured policy name to a validator.
func ValidatorForPolicy(policy string) TransitionValidator {
	if policy == "strict" {
		return StrictTransitions
	}
	return PermissiveTransitions
}
