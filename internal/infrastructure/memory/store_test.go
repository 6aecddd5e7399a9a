package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

func newProfile(t *testing.T, s *Store, id, userID string) {
	t.Helper()
	require.NoError(t, s.Profiles().Create(context.Background(), &entity.Profile{ID: id, UserID: userID, Created: time.Now()}))
}

func TestAppendRefIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	newProfile(t, s, "p1", "u1")
	profiles := s.Profiles()

	require.NoError(t, profiles.AppendRef(ctx, "p1", repository.RefRecipes, "r1"))
	require.NoError(t, profiles.AppendRef(ctx, "p1", repository.RefRecipes, "r1"))
	require.NoError(t, profiles.AppendRef(ctx, "p1", repository.RefRecipes, "r2"))

	p, err := profiles.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, p.Recipes)
	assert.Equal(t, []string{}, p.Comments)

	assert.ErrorIs(t, profiles.AppendRef(ctx, "missing", repository.RefRecipes, "r1"), repository.ErrNotFound)
}

func TestRemoveRef(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	newProfile(t, s, "p1", "u1")
	profiles := s.Profiles()
	require.NoError(t, profiles.AppendRef(ctx, "p1", repository.RefComments, "c1"))
	require.NoError(t, profiles.AppendRef(ctx, "p1", repository.RefComments, "c2"))

	require.NoError(t, profiles.RemoveRef(ctx, "p1", repository.RefComments, "c1"))
	assert.ErrorIs(t, profiles.RemoveRef(ctx, "p1", repository.RefComments, "c1"), repository.ErrNotFound)
	assert.ErrorIs(t, profiles.RemoveRef(ctx, "missing", repository.RefComments, "c2"), repository.ErrNotFound)

	p, err := profiles.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, p.Comments)
}

func TestRecipeHasNoRecipeRefs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Recipes().Create(ctx, &entity.Recipe{ID: "r1", ProfileID: "p1"}))
	assert.Error(t, s.Recipes().AppendRef(ctx, "r1", repository.RefRecipes, "x"))
}

func TestConcurrentAppendsKeepEveryChild(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Recipes().Create(ctx, &entity.Recipe{ID: "r1", ProfileID: "p1"}))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Recipes().AppendRef(ctx, "r1", repository.RefUpvotes, string(rune('A'+i))))
		}(i)
	}
	wg.Wait()

	rc, err := s.Recipes().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, rc.Upvotes, n)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	newProfile(t, s, "p1", "u1")
	require.NoError(t, s.Profiles().AppendRef(ctx, "p1", repository.RefUpvotes, "v1"))

	p, err := s.Profiles().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.Upvotes[0] = "tampered"

	again, err := s.Profiles().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, again.Upvotes)
}

func TestGetByIDsKeepsRequestOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, s.Comments().Create(ctx, &entity.Comment{ID: id, RecipeID: "r1", CommenterProfileID: "p1", Comment: id}))
	}
	got, err := s.Comments().GetByIDs(ctx, []string{"c3", "gone", "c1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c3", got[0].ID)
	assert.Equal(t, "c1", got[1].ID)
}

func TestDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Username: "alice", Email: "a@x.com"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{ID: "u2", Username: "alice", Email: "b@x.com"}), repository.ErrDuplicate)

	newProfile(t, s, "p1", "u1")
	assert.ErrorIs(t, s.Profiles().Create(ctx, &entity.Profile{ID: "p2", UserID: "u1"}), repository.ErrDuplicate)
}

func TestDeleteByOwnersReturnsRemovedPics(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	pics := s.Pics()
	require.NoError(t, pics.Create(ctx, &entity.Pic{ID: "a", OwnerID: "p1", OwnerKind: entity.OwnerProfile, ObjectKey: "k1"}))
	require.NoError(t, pics.Create(ctx, &entity.Pic{ID: "b", OwnerID: "r1", OwnerKind: entity.OwnerRecipe, ObjectKey: "k2"}))
	require.NoError(t, pics.Create(ctx, &entity.Pic{ID: "c", OwnerID: "r9", OwnerKind: entity.OwnerRecipe, ObjectKey: "k3"}))

	gone, err := pics.DeleteByOwners(ctx, []string{"p1", "r1"})
	require.NoError(t, err)
	require.Len(t, gone, 2)
	assert.Equal(t, "k1", gone[0].ObjectKey)
	assert.Equal(t, "k2", gone[1].ObjectKey)

	_, err = pics.GetByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = pics.GetByID(ctx, "c")
	assert.NoError(t, err)
}
