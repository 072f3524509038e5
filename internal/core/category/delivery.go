package category

import (
	"fmt"

	"ymate/internal/core/post"
)

// Delivery is the shared food-delivery marketplace.
type Delivery struct{}

func (Delivery) Name() post.Domain { return post.DomainDelivery }
func (Delivery) Label() string     { return "Shared delivery" }

func (Delivery) RequiredPairs() []Pair {
	return []Pair{
		{Value: "food", Code: "food_code"},
		{Value: "location", Code: "location_code"},
	}
}

func (Delivery) Optional() []string { return nil }

func (d Delivery) Applied(applicant, postTitle string) (string, string) {
	return d.Label() + ": new application",
		fmt.Sprintf("%s applied to share the delivery <%s>.", applicant, postTitle)
}

func (d Delivery) Accepted(owner, postTitle string) (string, string) {
	return d.Label() + ": application accepted",
		fmt.Sprintf("%s accepted your application for <%s>.", owner, postTitle)
}

func (d Delivery) Rejected(owner, postTitle string) (string, string) {
	return d.Label() + ": application rejected",
		fmt.Sprintf("%s rejected your application for <%s>.", owner, postTitle)
}
