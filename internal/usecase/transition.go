package usecase

import (
	"fmt"

	"facility-rental/internal/data/entity"
)

// Action is a staff or applicant decision on a session.
type Action string

const (
	ActionReview  Action = "review"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionReview, ActionApprove, ActionReject, ActionCancel:
		return a, true
	default:
		return "", false
	}
}

// nextStatus applies action to current. Terminal statuses never change.
func nextStatus(current entity.RequestStatus, action Action) (entity.RequestStatus, error) {
	switch action {
	case ActionReview:
		if current == entity.StatusReceived {
			return entity.StatusUnderReview, nil
		}
	case ActionApprove:
		if current.IsPending() {
			return entity.StatusApproved, nil
		}
	case ActionReject:
		if current.IsPending() {
			return entity.StatusRejected, nil
		}
	case ActionCancel:
		if current.IsPending() || current == entity.StatusApproved {
			return entity.StatusCancelled, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s a %s request", ErrInvalidState, action, current)
}
