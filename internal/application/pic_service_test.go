package application_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func png(name string) application.Upload {
	return application.Upload{Filename: name, Body: bytes.NewReader(pngBytes)}
}

func TestPicAttach_SetsOwnerURIAndKeepsOlderPics(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, func(o *application.Options) { o.UploadDir = dir })
	alice, _ := f.member("alice")
	r := f.recipe(alice, "eggs")
	f.blob.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("https://blob.test/", nil)

	first, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID, png("one.png"))
	require.NoError(t, err)
	second, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID, png("two.PNG"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(second.ObjectKey, "pics/recipe/"+r.ID+"/"))
	assert.True(t, strings.HasSuffix(second.ObjectKey, ".png"))
	assert.Equal(t, "https://blob.test/"+second.ObjectKey, second.ImageURI)
	assert.Equal(t, second.ImageURI, *f.getRecipe(r.ID).RecipePicURI)

	got, err := f.svc.Pics.Get(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ImageURI, got.ImageURI)
	assert.Equal(t, pngBytes, f.blob.data[first.ObjectKey])

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPicAttach_TempFileRemovedOnUploadFailure(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, func(o *application.Options) { o.UploadDir = dir })
	alice, p := f.member("alice")
	f.blob.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket gone"))

	_, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerProfile, p.ID, png("me.png"))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Nil(t, f.getProfile(p.ID).ProfilePicURI)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPicAttach_Rejects(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")
	bob, _ := f.member("bob")
	r := f.recipe(alice, "eggs")

	_, err := f.svc.Pics.Attach(f.ctx, bob.UserID, entity.OwnerRecipe, r.ID, png("x.png"))
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	_, err = f.svc.Pics.Attach(f.ctx, bob.UserID, entity.OwnerProfile, aliceProfile.ID, png("x.png"))
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))

	_, err = f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID,
		application.Upload{Filename: "notes.txt", Body: strings.NewReader("plain text, not an image")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID,
		application.Upload{Filename: "empty.png", Body: bytes.NewReader(nil)})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	f.blob.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPicDetach_ClearsURIAndRecord(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")
	f.blob.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("https://blob.test/", nil)
	old, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerProfile, aliceProfile.ID, png("old.png"))
	require.NoError(t, err)
	current, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerProfile, aliceProfile.ID, png("new.png"))
	require.NoError(t, err)
	f.blob.On("Delete", mock.Anything, current.ObjectKey).Return(nil).Once()

	require.NoError(t, f.svc.Pics.Detach(f.ctx, alice.UserID, entity.OwnerProfile, aliceProfile.ID))

	assert.Nil(t, f.getProfile(aliceProfile.ID).ProfilePicURI)
	_, err = f.svc.Pics.Get(f.ctx, current.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = f.svc.Pics.Get(f.ctx, old.ID)
	assert.NoError(t, err)
	f.blob.AssertExpectations(t)
}

func TestPicDetach_BlobFailureChangesNothing(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.member("alice")
	r := f.recipe(alice, "eggs")
	f.blob.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("https://blob.test/", nil)
	pic, err := f.svc.Pics.Attach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID, png("eggs.png"))
	require.NoError(t, err)
	f.blob.On("Delete", mock.Anything, pic.ObjectKey).Return(errors.New("timeout"))

	err = f.svc.Pics.Detach(f.ctx, alice.UserID, entity.OwnerRecipe, r.ID)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))

	assert.Equal(t, pic.ImageURI, *f.getRecipe(r.ID).RecipePicURI)
	_, err = f.svc.Pics.Get(f.ctx, pic.ID)
	assert.NoError(t, err)
}

func TestPicDetach_NoPic(t *testing.T) {
	f := newFixture(t)
	alice, aliceProfile := f.member("alice")

	err := f.svc.Pics.Detach(f.ctx, alice.UserID, entity.OwnerProfile, aliceProfile.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
