package entity

import "time"

// OwnerKind tells which collection a Pic owner lives in.
type OwnerKind string

const (
	OwnerProfile OwnerKind = "profile"
	OwnerRecipe  OwnerKind = "recipe"
)

func (k OwnerKind) Valid() bool {
	return k == OwnerProfile || k == OwnerRecipe
}

// Pic is an uploaded image. OwnerID points at a Profile or a Recipe; ObjectKey
// is the blob store handle used for deletion.
type Pic struct {
	ID        string    `json:"_id"`
	OwnerID   string    `json:"ownerID"`
	OwnerKind OwnerKind `json:"ownerKind"`
	ImageURI  string    `json:"imageURI"`
	ObjectKey string    `json:"objectKey"`
	Created   time.Time `json:"created"`
}
