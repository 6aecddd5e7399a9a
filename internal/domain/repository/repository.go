package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// RefField names a back-reference array on a Profile or Recipe document.
type RefField string

const (
	RefRecipes  RefField = "recipes"
	RefComments RefField = "comments"
	RefUpvotes  RefField = "upvotes"
)

// RefStore mutates back-reference arrays one element at a time. Both calls are
// a single atomic write on the parent document.
//
// AppendRef returns ErrNotFound when the parent does not exist and is a no-op
// when childID is already present. RemoveRef returns ErrNotFound when the
// parent does not exist or does not hold childID.
type RefStore interface {
	AppendRef(ctx context.Context, parentID string, field RefField, childID string) error
	RemoveRef(ctx context.Context, parentID string, field RefField, childID string) error
}

// PicURIStore sets or clears (nil) the picture URI of an owner document.
type PicURIStore interface {
	SetPicURI(ctx context.Context, id string, uri *string) error
}
