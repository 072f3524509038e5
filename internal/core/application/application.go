package application

import (
	"time"

	"github.com/gofrs/uuid"
)

type State string

const (
	StateWaiting  State = "WAITING"
	StateAccepted State = "ACCEPTED"
	StateRejected State = "REJECTED"
	StateCanceled State = "CANCELED"
	StateFinished State = "FINISHED"
)

// IsTerminal reports whether no transition leaves s. WAITING is the only
// non-terminal state.
func (s State) IsTerminal() bool {
	return s != StateWaiting
}

// Active reports whether s still holds the applicant's slot on the post;
// a user may not apply again while any of their applications is active.
func (s State) Active() bool {
	return s == StateWaiting || s == StateAccepted
}

// AllowsDeletion reports whether an application in state s lets its post be
// deleted.
func (s State) AllowsDeletion() bool {
	return s == StateCanceled || s == StateRejected
}

// Application is a respondent's request against exactly one post.
type Application struct {
	ID          uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID      uuid.UUID `gorm:"type:char(36);not null;index:idx_applications_post_state,priority:1"`
	ApplicantID uuid.UUID `gorm:"type:char(36);not null;index"`
	Message     string    `gorm:"type:text;not null"`
	Details     string    `gorm:"type:text"`
	State       State     `gorm:"type:varchar(20);not null;index:idx_applications_post_state,priority:2"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
