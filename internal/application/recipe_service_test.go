package application_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func TestRecipeCreate_LinksProfile(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")

	out, err := f.svc.Recipes.Create(f.ctx, alice.UserID, application.CreateRecipeInput{
		Ingredients:  []string{"egg"},
		Instructions: "boil",
		Categories:   []string{"breakfast"},
	})
	require.NoError(t, err)

	assert.Equal(t, aliceProfile.ID, out.Recipe.ProfileID)
	assert.Equal(t, []string{out.Recipe.ID}, out.Profile.Recipes)
	assert.Empty(t, out.Recipe.Comments)
	assert.NotNil(t, out.Recipe.Comments)
}

func TestRecipeCreate_RequiredFields(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")

	_, err := f.svc.Recipes.Create(f.ctx, alice.UserID, application.CreateRecipeInput{Instructions: "boil"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, apperror.PublicMessage(err), "ingredients")
	assert.Contains(t, apperror.PublicMessage(err), "categories")
	assert.Empty(t, f.getProfile(aliceProfile.ID).Recipes)
}

func TestRecipeUpdate_OnlySuppliedFields(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	r := f.recipe(alice, "eggs")

	_, err := f.svc.Recipes.Update(f.ctx, r.ID, alice.UserID, entity.RecipePatch{})
	assert.Equal(t, "nothing to update", apperror.PublicMessage(err))

	got, err := f.svc.Recipes.Update(f.ctx, r.ID, alice.UserID, entity.RecipePatch{CookTime: ptr("5m")})
	require.NoError(t, err)
	assert.Equal(t, "5m", got.CookTime)
	assert.Equal(t, "eggs", got.RecipeName)
	assert.Equal(t, []string{"egg"}, got.Ingredients)
}

func TestRecipeMutations_RequireOwner(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	bob, _ := f.member("bob")
	r := f.recipe(alice, "eggs")

	_, err := f.svc.Recipes.Update(f.ctx, r.ID, bob.UserID, entity.RecipePatch{RecipeName: ptr("mine now")})
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	err = f.svc.Recipes.Delete(f.ctx, r.ID, bob.UserID)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	f.getRecipe(r.ID)
}

func TestRecipeDelete_RemovesDependents(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")
	bob, bobProfile := f.member("bob")
	r := f.recipe(alice, "eggs")
	other := f.recipe(alice, "toast")
	c := f.comment(bob, r.ID, "great")
	u := f.upvote(bob, r.ID)
	kept := f.comment(bob, other.ID, "also great")

	f.blob.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("https://blob.test/", nil)
	pic, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID, application.Upload{Filename: "a.png", Body: bytes.NewReader(pngBytes)})
	require.NoError(t, err)
	f.blob.On("Delete", mock.Anything, pic.ObjectKey).Return(nil).Once()

	require.NoError(t, f.svc.Recipes.Delete(f.ctx, r.ID, alice.UserID))

	_, err = f.svc.Recipes.Get(f.ctx, r.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, []string{other.ID}, f.getProfile(aliceProfile.ID).Recipes)

	bobNow := f.getProfile(bobProfile.ID)
	assert.Equal(t, []string{kept.ID}, bobNow.Comments)
	assert.Empty(t, bobNow.Upvotes)
	_, err = f.svc.Comments.Get(f.ctx, c.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = f.svc.Upvotes.Get(f.ctx, u.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = f.svc.Pics.Get(f.ctx, pic.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	f.blob.AssertExpectations(t)
}

func TestProfileWithRecipes(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")
	r1 := f.recipe(alice, "eggs")
	r2 := f.recipe(alice, "toast")

	got, err := f.svc.Profiles.WithRecipes(f.ctx, aliceProfile.ID)
	require.NoError(t, err)
	require.Len(t, got.Recipes, 2)
	assert.Equal(t, r1.ID, got.Recipes[0].ID)
	assert.Equal(t, r2.ID, got.Recipes[1].ID)
	assert.Equal(t, "alice", got.Name)
}

type stubIndex struct {
	hits    []string
	indexed map[string]bool
}

func (s *stubIndex) Index(_ context.Context, r *entity.Recipe) error {
	if s.indexed == nil {
		s.indexed = map[string]bool{}
	}
	s.indexed[r.ID] = true
	return nil
}

func (s *stubIndex) Remove(_ context.Context, id string) error {
	delete(s.indexed, id)
	return nil
}

func (s *stubIndex) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return s.hits, nil
}

func TestRecipeSearch(t *testing.T) {
	idx := &stubIndex{}
	f := newFixture(t, func(o *application.Options) { o.Index = idx })
	alice, _ := f.member("alice")
	r1 := f.recipe(alice, "eggs")
	r2 := f.recipe(alice, "toast")
	assert.True(t, idx.indexed[r1.ID])

	idx.hits = []string{r2.ID, "gone", r1.ID}
	got, err := f.svc.Recipes.Search(f.ctx, "egg", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, r2.ID, got[0].ID)
	assert.Equal(t, r1.ID, got[1].ID)

	_, err = f.svc.Recipes.Search(f.ctx, " ", 0)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	require.NoError(t, f.svc.Recipes.Delete(f.ctx, r1.ID, alice.UserID))
	assert.False(t, idx.indexed[r1.ID])
}
