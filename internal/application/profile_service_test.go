package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func TestProfileCreate(t *testing.T) {
	f := newFixture(t)
	_, who := f.signup("alice")

	p, err := f.svc.Profiles.Create(f.ctx, who.UserID, application.CreateProfileInput{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, who.UserID, p.UserID)
	assert.NotNil(t, p.Recipes)
	assert.Empty(t, p.Recipes)
	assert.Empty(t, p.Comments)
	assert.Empty(t, p.Upvotes)

	_, err = f.svc.Profiles.Create(f.ctx, who.UserID, application.CreateProfileInput{Name: "Again"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestProfileGet_IDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Profiles.Get(f.ctx, "xyz")
	assert.Equal(t, apperror.KindCast, apperror.KindOf(err))
	assert.Equal(t, 404, apperror.KindOf(err).Status())

	_, err = f.svc.Profiles.Get(f.ctx, "5a0d2e1c-8c1a-4c9b-9a55-2a4b7c9d0e11")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t)
	alice, p := f.member("alice")
	bob, _ := f.member("bob")

	_, err := f.svc.Profiles.Update(f.ctx, p.ID, alice.UserID, entity.ProfilePatch{})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.KindOf(err).Status())
	assert.Equal(t, "nothing to update", apperror.PublicMessage(err))

	_, err = f.svc.Profiles.Update(f.ctx, p.ID, bob.UserID, entity.ProfilePatch{Name: ptr("Mallory")})
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	got, err := f.svc.Profiles.Update(f.ctx, p.ID, alice.UserID, entity.ProfilePatch{Name: ptr("Alice L.")})
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", got.Name)
	assert.Nil(t, got.ProfilePicURI)
	assert.Equal(t, p.Created, got.Created)
}

func TestProfileList(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Profiles.List(f.ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	f.member("alice")
	f.member("bob")
	got, err = f.svc.Profiles.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Name)
	assert.Equal(t, "bob", got[1].Name)
}
