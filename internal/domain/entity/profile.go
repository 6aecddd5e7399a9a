package entity

import "time"

// Profile is the aggregate root for a user's content. Recipes, Comments and
// Upvotes are back-references kept in creation order.
type Profile struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userID"`
	Name          string    `json:"name"`
	ProfilePicURI *string   `json:"profilePicURI"`
	Recipes       []string  `json:"recipes"`
	Comments      []string  `json:"comments"`
	Upvotes       []string  `json:"upvotes"`
	Created       time.Time `json:"created"`
}

// Normalize replaces nil reference slices with empty ones so they encode as [].
func (p *Profile) Normalize() {
	p.Recipes = orEmpty(p.Recipes)
	p.Comments = orEmpty(p.Comments)
	p.Upvotes = orEmpty(p.Upvotes)
}

type ProfilePatch struct {
	Name          *string `json:"name"`
	ProfilePicURI *string `json:"profilePicURI"`
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.ProfilePicURI == nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
