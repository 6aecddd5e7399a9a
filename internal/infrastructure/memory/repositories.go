package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if x.val.Username == u.Username || x.val.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.s.users[u.ID] = row[entity.User]{seq: r.s.next(), val: *u}
	return nil
}

func (r *userRepo) find(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, x := range r.s.users {
		if match(x.val) {
			u := x.val
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *userRepo) GetByFindHash(_ context.Context, findHash string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.FindHash == findHash })
}

func (r *userRepo) Update(_ context.Context, id string, patch entity.UserPatch, passwordHash, findHash *string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := x.val
	for _, o := range r.s.users {
		if o.val.ID == id {
			continue
		}
		if (patch.Username != nil && o.val.Username == *patch.Username) || (patch.Email != nil && o.val.Email == *patch.Email) {
			return nil, repository.ErrDuplicate
		}
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if findHash != nil {
		u.FindHash = *findHash
	}
	u.UpdatedAt = time.Now().UTC()
	x.val = u
	r.s.users[id] = x
	return &u, nil
}

func (r *userRepo) DeleteByUsername(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	gone := deleteWhere(r.s.users, func(u entity.User) string { return u.ID }, func(u entity.User) bool { return u.Username == username })
	if len(gone) == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) Create(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.profiles {
		if x.val.UserID == p.UserID {
			return repository.ErrDuplicate
		}
	}
	r.s.profiles[p.ID] = row[entity.Profile]{seq: r.s.next(), val: cloneProfile(*p)}
	return nil
}

func (r *profileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := cloneProfile(x.val)
	return &p, nil
}

func (r *profileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, x := range r.s.profiles {
		if x.val.UserID == userID {
			p := cloneProfile(x.val)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *profileRepo) List(_ context.Context) ([]entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ps := ordered(r.s.profiles, nil)
	for i := range ps {
		ps[i] = cloneProfile(ps[i])
	}
	return ps, nil
}

func (r *profileRepo) Update(_ context.Context, id string, patch entity.ProfilePatch) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		x.val.Name = *patch.Name
	}
	if patch.ProfilePicURI != nil {
		x.val.ProfilePicURI = cloneStr(patch.ProfilePicURI)
	}
	r.s.profiles[id] = x
	p := cloneProfile(x.val)
	return &p, nil
}

func (r *profileRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.profiles, id)
	return nil
}

func (r *profileRepo) AppendRef(_ context.Context, parentID string, field repository.RefField, childID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.profiles[parentID]
	if !ok {
		return repository.ErrNotFound
	}
	refs := refSlice(field, &x.val.Recipes, &x.val.Comments, &x.val.Upvotes)
	if refs == nil {
		return fmt.Errorf("profile has no %q references", field)
	}
	*refs = appendRef(*refs, childID)
	r.s.profiles[parentID] = x
	return nil
}

func (r *profileRepo) RemoveRef(_ context.Context, parentID string, field repository.RefField, childID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.profiles[parentID]
	if !ok {
		return repository.ErrNotFound
	}
	refs := refSlice(field, &x.val.Recipes, &x.val.Comments, &x.val.Upvotes)
	if refs == nil {
		return fmt.Errorf("profile has no %q references", field)
	}
	var removed bool
	if *refs, removed = removeRef(*refs, childID); !removed {
		return repository.ErrNotFound
	}
	r.s.profiles[parentID] = x
	return nil
}

func (r *profileRepo) SetPicURI(_ context.Context, id string, uri *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	x.val.ProfilePicURI = cloneStr(uri)
	r.s.profiles[id] = x
	return nil
}

type recipeRepo struct{ s *Store }

func (r *recipeRepo) Create(_ context.Context, rc *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[rc.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.recipes[rc.ID] = row[entity.Recipe]{seq: r.s.next(), val: cloneRecipe(*rc)}
	return nil
}

func (r *recipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.recipes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rc := cloneRecipe(x.val)
	return &rc, nil
}

func (r *recipeRepo) GetByIDs(_ context.Context, ids []string) ([]entity.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return pick(r.s.recipes, ids, cloneRecipe), nil
}

func (r *recipeRepo) Update(_ context.Context, id string, patch entity.RecipePatch) (*entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.recipes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := &x.val
	setStr(&v.Description, patch.Description)
	setStr(&v.Instructions, patch.Instructions)
	setStr(&v.CookTime, patch.CookTime)
	setStr(&v.PrepTime, patch.PrepTime)
	setStr(&v.RecipeName, patch.RecipeName)
	if patch.RecipePicURI != nil {
		v.RecipePicURI = cloneStr(patch.RecipePicURI)
	}
	if patch.Ingredients != nil {
		v.Ingredients = slices.Clone(*patch.Ingredients)
	}
	if patch.Categories != nil {
		v.Categories = slices.Clone(*patch.Categories)
	}
	r.s.recipes[id] = x
	rc := cloneRecipe(x.val)
	return &rc, nil
}

func (r *recipeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.recipes, id)
	return nil
}

func (r *recipeRepo) DeleteByProfile(_ context.Context, profileID string) ([]entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deleteWhere(r.s.recipes,
		func(rc entity.Recipe) string { return rc.ID },
		func(rc entity.Recipe) bool { return rc.ProfileID == profileID }), nil
}

func (r *recipeRepo) AppendRef(_ context.Context, parentID string, field repository.RefField, childID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.recipes[parentID]
	if !ok {
		return repository.ErrNotFound
	}
	refs := refSlice(field, nil, &x.val.Comments, &x.val.Upvotes)
	if refs == nil {
		return fmt.Errorf("recipe has no %q references", field)
	}
	*refs = appendRef(*refs, childID)
	r.s.recipes[parentID] = x
	return nil
}

func (r *recipeRepo) RemoveRef(_ context.Context, parentID string, field repository.RefField, childID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.recipes[parentID]
	if !ok {
		return repository.ErrNotFound
	}
	refs := refSlice(field, nil, &x.val.Comments, &x.val.Upvotes)
	if refs == nil {
		return fmt.Errorf("recipe has no %q references", field)
	}
	var removed bool
	if *refs, removed = removeRef(*refs, childID); !removed {
		return repository.ErrNotFound
	}
	r.s.recipes[parentID] = x
	return nil
}

func (r *recipeRepo) SetPicURI(_ context.Context, id string, uri *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.recipes[id]
	if !ok {
		return repository.ErrNotFound
	}
	x.val.RecipePicURI = cloneStr(uri)
	r.s.recipes[id] = x
	return nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[c.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.comments[c.ID] = row[entity.Comment]{seq: r.s.next(), val: *c}
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := x.val
	return &c, nil
}

func (r *commentRepo) GetByIDs(_ context.Context, ids []string) ([]entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return pick(r.s.comments, ids, same[entity.Comment]), nil
}

func (r *commentRepo) Update(_ context.Context, id string, patch entity.CommentPatch) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	setStr(&x.val.Comment, patch.Comment)
	r.s.comments[id] = x
	c := x.val
	return &c, nil
}

func (r *commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepo) DeleteByCommenter(_ context.Context, profileID string) ([]entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deleteWhere(r.s.comments,
		func(c entity.Comment) string { return c.ID },
		func(c entity.Comment) bool { return c.CommenterProfileID == profileID }), nil
}

func (r *commentRepo) DeleteByRecipe(_ context.Context, recipeID string) ([]entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deleteWhere(r.s.comments,
		func(c entity.Comment) string { return c.ID },
		func(c entity.Comment) bool { return c.RecipeID == recipeID }), nil
}

type upvoteRepo struct{ s *Store }

func (r *upvoteRepo) Create(_ context.Context, u *entity.Upvote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.upvotes[u.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.upvotes[u.ID] = row[entity.Upvote]{seq: r.s.next(), val: *u}
	return nil
}

func (r *upvoteRepo) GetByID(_ context.Context, id string) (*entity.Upvote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.upvotes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := x.val
	return &u, nil
}

func (r *upvoteRepo) GetByIDs(_ context.Context, ids []string) ([]entity.Upvote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return pick(r.s.upvotes, ids, same[entity.Upvote]), nil
}

func (r *upvoteRepo) Update(_ context.Context, id string, patch entity.UpvotePatch) (*entity.Upvote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.upvotes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	setStr(&x.val.Upvote, patch.Upvote)
	r.s.upvotes[id] = x
	u := x.val
	return &u, nil
}

func (r *upvoteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.upvotes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.upvotes, id)
	return nil
}

func (r *upvoteRepo) DeleteByVoter(_ context.Context, profileID string) ([]entity.Upvote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deleteWhere(r.s.upvotes,
		func(u entity.Upvote) string { return u.ID },
		func(u entity.Upvote) bool { return u.VoterProfileID == profileID }), nil
}

func (r *upvoteRepo) DeleteByRecipe(_ context.Context, recipeID string) ([]entity.Upvote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deleteWhere(r.s.upvotes,
		func(u entity.Upvote) string { return u.ID },
		func(u entity.Upvote) bool { return u.RecipeID == recipeID }), nil
}

type picRepo struct{ s *Store }

func (r *picRepo) Create(_ context.Context, p *entity.Pic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pics[p.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.pics[p.ID] = row[entity.Pic]{seq: r.s.next(), val: *p}
	return nil
}

func (r *picRepo) GetByID(_ context.Context, id string) (*entity.Pic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.pics[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := x.val
	return &p, nil
}

func (r *picRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.Pic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return ordered(r.s.pics, func(p entity.Pic) bool { return p.OwnerID == ownerID }), nil
}

func (r *picRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pics[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.pics, id)
	return nil
}

func (r *picRepo) DeleteByOwners(_ context.Context, ownerIDs []string) ([]entity.Pic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deleteWhere(r.s.pics,
		func(p entity.Pic) string { return p.ID },
		func(p entity.Pic) bool { return slices.Contains(ownerIDs, p.OwnerID) }), nil
}
