package category

import (
	"fmt"

	"ymate/internal/core/post"
)

// Taxi is the shared-ride marketplace. Fare and seats are informational.
type Taxi struct{}

func (Taxi) Name() post.Domain { return post.DomainTaxi }
func (Taxi) Label() string     { return "Shared taxi" }

func (Taxi) RequiredPairs() []Pair {
	return []Pair{
		{Value: "departure", Code: "departure_code"},
		{Value: "arrival", Code: "arrival_code"},
	}
}

func (Taxi) Optional() []string { return []string{"fare", "seats"} }

func (t Taxi) Applied(applicant, postTitle string) (string, string) {
	return t.Label() + ": new application",
		fmt.Sprintf("%s wants to share the ride <%s>.", applicant, postTitle)
}

func (t Taxi) Accepted(owner, postTitle string) (string, string) {
	return t.Label() + ": application accepted",
		fmt.Sprintf("%s accepted you for the ride <%s>.", owner, postTitle)
}

func (t Taxi) Rejected(owner, postTitle string) (string, string) {
	return t.Label() + ": application rejected",
		fmt.Sprintf("%s rejected your request for the ride <%s>.", owner, postTitle)
}
