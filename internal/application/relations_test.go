package application_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func TestRelations_LinkIsIdempotent(t *testing.T) {
	f := newFixture(t)
	_, p := f.member("alice")
	rel := f.svc.Relations

	require.NoError(t, rel.Link(f.ctx, rel.ProfileComments(), p.ID, "c1"))
	require.NoError(t, rel.Link(f.ctx, rel.ProfileComments(), p.ID, "c1"))
	require.NoError(t, rel.Link(f.ctx, rel.ProfileComments(), p.ID, "c2"))

	assert.Equal(t, []string{"c1", "c2"}, f.getProfile(p.ID).Comments)
}

func TestRelations_MissingParentOrChild(t *testing.T) {
	f := newFixture(t)
	_, p := f.member("alice")
	rel := f.svc.Relations

	err := rel.Link(f.ctx, rel.RecipeComments(), "00000000-0000-0000-0000-000000000000", "c1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = rel.Unlink(f.ctx, rel.ProfileUpvotes(), p.ID, "never-linked")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRelations_UnlinkAllKeepsGoing(t *testing.T) {
	f := newFixture(t)
	_, p := f.member("alice")
	rel := f.svc.Relations
	require.NoError(t, rel.Link(f.ctx, rel.ProfileComments(), p.ID, "c1"))

	err := rel.UnlinkAll(f.ctx, "c1",
		application.Ref{Edge: rel.RecipeComments(), ParentID: "missing-recipe"},
		application.Ref{Edge: rel.ProfileComments(), ParentID: p.ID},
	)
	require.Error(t, err)
	assert.Empty(t, f.getProfile(p.ID).Comments)
}

func TestRelations_ConcurrentLinksOnOneParent(t *testing.T) {
	f := newFixture(t)
	_, p := f.member("alice")
	rel := f.svc.Relations

	ids := make([]string, 50)
	var wg sync.WaitGroup
	for i := range ids {
		ids[i] = "c" + string(rune('A'+i%26)) + string(rune('a'+i/26))
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, rel.Link(f.ctx, rel.ProfileComments(), p.ID, id))
		}(ids[i])
	}
	wg.Wait()

	assert.ElementsMatch(t, ids, f.getProfile(p.ID).Comments)
}

func TestRelations_SetPicURI(t *testing.T) {
	f := newFixture(t)
	who, _ := f.member("alice")
	r := f.recipe(who, "eggs")
	rel := f.svc.Relations

	require.NoError(t, rel.SetPicURI(f.ctx, "recipe", r.ID, ptr("https://img/1")))
	assert.Equal(t, "https://img/1", *f.getRecipe(r.ID).RecipePicURI)

	require.NoError(t, rel.SetPicURI(f.ctx, "recipe", r.ID, nil))
	assert.Nil(t, f.getRecipe(r.ID).RecipePicURI)
}
