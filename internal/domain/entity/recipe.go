package entity

import "time"

type Recipe struct {
	ID           string    `json:"_id"`
	ProfileID    string    `json:"profileID"`
	Description  string    `json:"description"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CookTime     string    `json:"cookTime"`
	PrepTime     string    `json:"prepTime"`
	RecipeName   string    `json:"recipeName"`
	RecipePicURI *string   `json:"recipePicURI"`
	Categories   []string  `json:"categories"`
	Comments     []string  `json:"comments"`
	Upvotes      []string  `json:"upvotes"`
	Created      time.Time `json:"created"`
}

func (r *Recipe) Normalize() {
	r.Ingredients = orEmpty(r.Ingredients)
	r.Categories = orEmpty(r.Categories)
	r.Comments = orEmpty(r.Comments)
	r.Upvotes = orEmpty(r.Upvotes)
}

// RecipePatch covers the scalar and list fields of a Recipe. Back-reference
// arrays are deliberately absent: they only change through link/unlink.
type RecipePatch struct {
	Description  *string   `json:"description"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *string   `json:"instructions"`
	CookTime     *string   `json:"cookTime"`
	PrepTime     *string   `json:"prepTime"`
	RecipeName   *string   `json:"recipeName"`
	RecipePicURI *string   `json:"recipePicURI"`
	Categories   *[]string `json:"categories"`
}

func (p RecipePatch) IsEmpty() bool {
	return p.Description == nil && p.Ingredients == nil && p.Instructions == nil &&
		p.CookTime == nil && p.PrepTime == nil && p.RecipeName == nil &&
		p.RecipePicURI == nil && p.Categories == nil
}
