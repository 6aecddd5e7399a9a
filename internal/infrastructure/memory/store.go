// Package memory is an in-process implementation of the repositories, used by
// tests and by STORE_DRIVER=memory. One mutex guards every collection, so each
// call is atomic the same way a single SQL statement is.
package memory

import (
	"slices"
	"sort"
	"sync"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

type row[T any] struct {
	seq uint64
	val T
}

type Store struct {
	mu  sync.RWMutex
	seq uint64

	users    map[string]row[entity.User]
	profiles map[string]row[entity.Profile]
	recipes  map[string]row[entity.Recipe]
	comments map[string]row[entity.Comment]
	upvotes  map[string]row[entity.Upvote]
	pics     map[string]row[entity.Pic]
}

func NewStore() *Store {
	return &Store{
		users:    map[string]row[entity.User]{},
		profiles: map[string]row[entity.Profile]{},
		recipes:  map[string]row[entity.Recipe]{},
		comments: map[string]row[entity.Comment]{},
		upvotes:  map[string]row[entity.Upvote]{},
		pics:     map[string]row[entity.Pic]{},
	}
}

func (s *Store) Users() repository.UserRepository       { return &userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository { return &profileRepo{s} }
func (s *Store) Recipes() repository.RecipeRepository   { return &recipeRepo{s} }
func (s *Store) Comments() repository.CommentRepository { return &commentRepo{s} }
func (s *Store) Upvotes() repository.UpvoteRepository   { return &upvoteRepo{s} }
func (s *Store) Pics() repository.PicRepository         { return &picRepo{s} }

// next returns the insertion sequence; callers hold s.mu.
func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// ordered returns the values of m in insertion order.
func ordered[T any](m map[string]row[T], keep func(T) bool) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(r.val) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.val)
	}
	return out
}

// pick returns the values for ids that exist, in the order of ids.
func pick[T any](m map[string]row[T], ids []string, clone func(T) T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if r, ok := m[id]; ok {
			out = append(out, clone(r.val))
		}
	}
	return out
}

// deleteWhere removes and returns the matching values in insertion order.
func deleteWhere[T any](m map[string]row[T], id func(T) string, match func(T) bool) []T {
	gone := ordered(m, match)
	for _, v := range gone {
		delete(m, id(v))
	}
	return gone
}

func cloneProfile(p entity.Profile) entity.Profile {
	p.Recipes = slices.Clone(p.Recipes)
	p.Comments = slices.Clone(p.Comments)
	p.Upvotes = slices.Clone(p.Upvotes)
	p.ProfilePicURI = cloneStr(p.ProfilePicURI)
	p.Normalize()
	return p
}

func cloneRecipe(r entity.Recipe) entity.Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Categories = slices.Clone(r.Categories)
	r.Comments = slices.Clone(r.Comments)
	r.Upvotes = slices.Clone(r.Upvotes)
	r.RecipePicURI = cloneStr(r.RecipePicURI)
	r.Normalize()
	return r
}

func same[T any](v T) T { return v }

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// appendRef and removeRef implement the RefStore contract on one slice.
func appendRef(refs []string, childID string) []string {
	if slices.Contains(refs, childID) {
		return refs
	}
	return append(refs, childID)
}

func removeRef(refs []string, childID string) ([]string, bool) {
	i := slices.Index(refs, childID)
	if i < 0 {
		return refs, false
	}
	return slices.Delete(refs, i, i+1), true
}

func refSlice(field repository.RefField, recipes, comments, upvotes *[]string) *[]string {
	switch field {
	case repository.RefRecipes:
		return recipes
	case repository.RefComments:
		return comments
	case repository.RefUpvotes:
		return upvotes
	}
	return nil
}
