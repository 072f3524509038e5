package lifecycle

import (
	"ymate/internal/core/application"
	"ymate/internal/core/errs"
	"ymate/internal/core/post"

	"github.com/gofrs/uuid"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionFinish Action = "finish"
	ActionApply  Action = "apply"
	ActionCancel Action = "cancel"
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Authorize decides whether caller may perform action. p is required for
// every action except cancel; app is required for cancel. Any denial is
// NoAuth.
func Authorize(caller uuid.UUID, action Action, p *post.Post, app *application.Application) error {
	allowed := false
	switch action {
	case ActionUpdate, ActionDelete, ActionFinish, ActionAccept, ActionReject:
		allowed = p != nil && p.OwnerID == caller
	case ActionApply:
		allowed = p != nil && p.OwnerID != caller
	case ActionCancel:
		allowed = app != nil && app.ApplicantID == caller
	}
	if !allowed {
		return errs.NoAuth("not allowed to " + string(action))
	}
	return nil
}

// Deletable reports whether a post with these applications may be deleted:
// every application must be CANCELED or REJECTED.
func Deletable(apps []*application.Application) bool {
	for _, a := range apps {
		if !a.State.AllowsDeletion() {
			return false
		}
	}
	return true
}
