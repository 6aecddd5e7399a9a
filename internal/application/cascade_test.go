package application_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/mailer/templates"
)

var errStoreDown = errors.New("store down")

type failingComments struct {
	repository.CommentRepository
}

func (failingComments) DeleteByCommenter(context.Context, string) ([]entity.Comment, error) {
	return nil, errStoreDown
}

type failingProfileDelete struct {
	repository.ProfileRepository
}

func (failingProfileDelete) Delete(context.Context, string) error { return errStoreDown }

func TestCascade_RemovesEverythingOfProfile(t *testing.T) {
	f := newFixture(t)
	aliceToken, alice := f.signup("alice")
	aliceProfile, err := f.svc.Profiles.Create(f.ctx, alice.UserID, application.CreateProfileInput{Name: "Alice"})
	require.NoError(t, err)
	bob, bobProfile := f.member("bob")

	r1 := f.recipe(alice, "eggs")
	r2 := f.recipe(alice, "toast")
	bobRecipe := f.recipe(bob, "soup")

	bobOnAlice := f.comment(bob, r1.ID, "nice")
	bobVoteOnAlice := f.upvote(bob, r2.ID)
	aliceOnBob := f.comment(alice, bobRecipe.ID, "yum")
	aliceVoteOnBob := f.upvote(alice, bobRecipe.ID)
	keptComment := f.comment(bob, bobRecipe.ID, "my own")

	f.blob.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("https://blob.test/", nil)
	profilePic, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerProfile, aliceProfile.ID, application.Upload{Filename: "me.png", Body: bytes.NewReader(pngBytes)})
	require.NoError(t, err)
	recipePic, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r1.ID, application.Upload{Filename: "eggs.png", Body: bytes.NewReader(pngBytes)})
	require.NoError(t, err)
	f.blob.On("Delete", mock.Anything, profilePic.ObjectKey).Return(nil).Once()
	f.blob.On("Delete", mock.Anything, recipePic.ObjectKey).Return(nil).Once()

	report, err := f.svc.Profiles.Delete(f.ctx, aliceProfile.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, application.StateDone, report.State)
	assert.Empty(t, report.StepErrors())

	step, ok := report.Step(application.StateRecipesRemoved)
	require.True(t, ok)
	assert.Equal(t, 2, step.Removed)
	step, _ = report.Step(application.StatePicsRemoved)
	assert.Equal(t, 2, step.Removed)

	_, err = f.svc.Profiles.Get(f.ctx, aliceProfile.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	for _, id := range []string{r1.ID, r2.ID} {
		_, err = f.svc.Recipes.Get(f.ctx, id)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	}
	for _, id := range []string{bobOnAlice.ID, aliceOnBob.ID} {
		_, err = f.svc.Comments.Get(f.ctx, id)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	}
	for _, id := range []string{bobVoteOnAlice.ID, aliceVoteOnBob.ID} {
		_, err = f.svc.Upvotes.Get(f.ctx, id)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	}

	soup := f.getRecipe(bobRecipe.ID)
	assert.Equal(t, []string{keptComment.ID}, soup.Comments)
	assert.Empty(t, soup.Upvotes)
	bobNow := f.getProfile(bobProfile.ID)
	assert.Equal(t, []string{keptComment.ID}, bobNow.Comments)
	assert.Empty(t, bobNow.Upvotes)

	_, err = f.store.Users().GetByUsername(f.ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.svc.Accounts.ResolveToken(f.ctx, aliceToken)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	assert.Equal(t, []string{templates.Welcome, templates.Welcome, templates.AccountClosed}, f.pub.templates())
	f.blob.AssertExpectations(t)
}

func TestCascade_DependentFailureStillCompletes(t *testing.T) {
	f := newFixture(t, func(o *application.Options) {
		o.Comments = failingComments{o.Comments}
	})
	alice, aliceProfile := f.member("alice")
	f.recipe(alice, "eggs")

	report, err := f.svc.Profiles.Delete(f.ctx, aliceProfile.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, application.StateDone, report.State)

	step, ok := report.Step(application.StateCommentsRemoved)
	require.True(t, ok)
	assert.ErrorIs(t, step.Err, errStoreDown)
	assert.Len(t, report.StepErrors(), 1)

	step, _ = report.Step(application.StateUserRemoved)
	assert.NoError(t, step.Err)
	_, err = f.store.Users().GetByUsername(f.ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCascade_PrimaryFailureFails(t *testing.T) {
	f := newFixture(t, func(o *application.Options) {
		o.Profiles = failingProfileDelete{o.Profiles}
	})
	alice, aliceProfile := f.member("alice")

	report, err := f.svc.Profiles.Delete(f.ctx, aliceProfile.ID, alice)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Equal(t, application.StateFailed, report.State)
	assert.Contains(t, report.Reason, string(application.StateProfileRemoved))

	step, _ := report.Step(application.StatePicsRemoved)
	assert.NoError(t, step.Err)
}

func TestCascade_OnlyOwnerMayDelete(t *testing.T) {
	f := newFixture(t)
	_, aliceProfile := f.member("alice")
	bob, _ := f.member("bob")

	_, err := f.svc.Profiles.Delete(f.ctx, aliceProfile.ID, bob)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	f.getProfile(aliceProfile.ID)
}

func TestCascade_AccountWithoutProfile(t *testing.T) {
	f := newFixture(t)
	f.signup("carol")
	u, err := f.svc.Accounts.Authenticate(f.ctx, "carol", "pw-carol")
	require.NoError(t, err)

	report, err := f.svc.Accounts.Close(f.ctx, u)
	require.NoError(t, err)
	assert.Equal(t, application.StateDone, report.State)
	step, _ := report.Step(application.StateProfileRemoved)
	assert.Equal(t, 0, step.Removed)

	_, err = f.svc.Accounts.Authenticate(f.ctx, "carol", "pw-carol")
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}
