package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func TestUpvote_LinkAndUnlink(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	bob, bobProfile := f.member("bob")
	r := f.recipe(alice, "eggs")

	out, err := f.svc.Upvotes.Create(f.ctx, bob.UserID, r.ID, "up")
	require.NoError(t, err)
	assert.Contains(t, out.Recipe.Upvotes, out.Upvote.ID)
	assert.Contains(t, out.Profile.Upvotes, out.Upvote.ID)

	require.NoError(t, f.svc.Upvotes.Delete(f.ctx, out.Upvote.ID, bob.UserID))
	assert.Empty(t, f.getRecipe(r.ID).Upvotes)
	assert.Empty(t, f.getProfile(bobProfile.ID).Upvotes)

	_, err = f.svc.Upvotes.Get(f.ctx, out.Upvote.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpvote_RepeatsAreKept(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	bob, _ := f.member("bob")
	r := f.recipe(alice, "eggs")

	u1 := f.upvote(bob, r.ID)
	u2 := f.upvote(bob, r.ID)

	assert.NotEqual(t, u1.ID, u2.ID)
	assert.Equal(t, []string{u1.ID, u2.ID}, f.getRecipe(r.ID).Upvotes)

	list, err := f.svc.Recipes.WithUpvotes(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, list.Upvotes, 2)
}

func TestUpvote_MarkerRequired(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	r := f.recipe(alice, "eggs")

	_, err := f.svc.Upvotes.Create(f.ctx, alice.UserID, r.ID, "")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Empty(t, f.getRecipe(r.ID).Upvotes)
}

func TestUpvote_UpdateByVoterOnly(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	bob, _ := f.member("bob")
	r := f.recipe(alice, "eggs")
	u := f.upvote(bob, r.ID)

	_, err := f.svc.Upvotes.Update(f.ctx, u.ID, alice.UserID, entity.UpvotePatch{Upvote: ptr("down")})
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	_, err = f.svc.Upvotes.Update(f.ctx, u.ID, bob.UserID, entity.UpvotePatch{})
	assert.Equal(t, "nothing to update", apperror.PublicMessage(err))

	got, err := f.svc.Upvotes.Update(f.ctx, u.ID, bob.UserID, entity.UpvotePatch{Upvote: ptr("+2")})
	require.NoError(t, err)
	assert.Equal(t, "+2", got.Upvote)
}
