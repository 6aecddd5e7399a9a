package entity

import "time"

type Comment struct {
	ID                 string    `json:"_id"`
	CommenterProfileID string    `json:"commenterProfileID"`
	RecipeID           string    `json:"recipeID"`
	Comment            string    `json:"comment"`
	Created            time.Time `json:"created"`
}

type CommentPatch struct {
	Comment *string `json:"comment"`
}

func (p CommentPatch) IsEmpty() bool { return p.Comment == nil }
