package post

import (
	"time"

	"github.com/gofrs/uuid"
)

// Domain names the marketplace a post belongs to.
type Domain string

const (
	DomainDelivery Domain = "delivery"
	DomainTaxi     Domain = "taxi"
)

type State string

const (
	StateActive   State = "ACTIVE"
	StateFinished State = "FINISHED"
	StateDeleted  State = "DELETED"
)

// States lists every post state in list-partition order.
var States = []State{StateActive, StateFinished, StateDeleted}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateDeleted
}

func ParseState(s string) (State, bool) {
	switch st := State(s); st {
	case StateActive, StateFinished, StateDeleted:
		return st, true
	}
	return "", false
}

// Attributes holds the domain-specific fields of a post (food, route, fare...).
type Attributes map[string]string

func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type Post struct {
	ID          uuid.UUID  `gorm:"primary_key;type:char(36)"`
	Domain      Domain     `gorm:"type:varchar(20);not null;index:idx_posts_domain_state,priority:1"`
	OwnerID     uuid.UUID  `gorm:"type:char(36);not null;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text;not null"`
	Deadline    time.Time  `gorm:"not null;index"`
	Link        string     `gorm:"type:varchar(512)"`
	Attributes  Attributes `gorm:"type:json;serializer:json"`
	State       State      `gorm:"type:varchar(20);not null;index:idx_posts_domain_state,priority:2"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

// Expired reports whether the deadline is at or before now.
func (p *Post) Expired(now time.Time) bool {
	return !p.Deadline.After(now)
}
