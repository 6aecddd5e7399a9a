package entity

import "time"

// Upvote has the same shape as Comment. A profile may upvote the same recipe
// more than once; nothing deduplicates them.
type Upvote struct {
	ID             string    `json:"_id"`
	VoterProfileID string    `json:"voterProfileID"`
	RecipeID       string    `json:"recipeID"`
	Upvote         string    `json:"upvote"`
	Created        time.Time `json:"created"`
}

type UpvotePatch struct {
	Upvote *string `json:"upvote"`
}

func (p UpvotePatch) IsEmpty() bool { return p.Upvote == nil }
