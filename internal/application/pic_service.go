package application

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	repo "github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/metrics"
)

// PicService attaches uploaded images to profiles and recipes.
//
// Upload: received -> uploaded -> persisted -> linked. The spooled temp file
// is removed whatever happens after it was written.
type PicService struct {
	Pics      repo.PicRepository
	Recipes   repo.RecipeRepository
	Profiles  *ProfileService
	Relations *Relations
	Blob      BlobStore
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics

	// TempDir is where uploads are spooled; empty means os.TempDir().
	TempDir string
}

// Upload is a received multipart file.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

var errNoBlobStore = apperror.Internal("blob store not configured", nil)

// Attach stores up as a new picture of the owner and points the owner's pic
// URI at it. Earlier pics of the owner are kept.
func (s *PicService) Attach(ctx context.Context, userID string, kind entity.OwnerKind, ownerID string, up Upload) (*entity.Pic, error) {
	if !kind.Valid() {
		return nil, apperror.NotFound("unknown pic owner " + string(kind))
	}
	if err := s.authorize(ctx, userID, kind, ownerID); err != nil {
		return nil, err
	}
	if up.Body == nil {
		return nil, apperror.Validation("image file required")
	}
	if s.Blob == nil {
		return nil, errNoBlobStore
	}

	spool, contentType, err := s.spool(up)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = spool.Close()
		if rmErr := os.Remove(spool.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
			s.log().WithError(rmErr).WithField("file", spool.Name()).Warn("temp upload not removed")
		}
	}()

	key := objectKey(kind, ownerID, up.Filename)
	uri, err := s.Blob.Put(ctx, key, contentType, spool)
	s.Metrics.ObserveBlob("put", err)
	if err != nil {
		return nil, apperror.Internal("upload image", err)
	}

	pic := &entity.Pic{
		ID:        newID(),
		OwnerID:   ownerID,
		OwnerKind: kind,
		ImageURI:  uri,
		ObjectKey: key,
		Created:   time.Now().UTC(),
	}
	if err := s.Pics.Create(ctx, pic); err != nil {
		s.discard(ctx, key)
		return nil, storeErr(err, "pic")
	}
	if err := s.Relations.SetPicURI(ctx, kind, ownerID, &uri); err != nil {
		if delErr := s.Pics.Delete(ctx, pic.ID); delErr != nil {
			s.log().WithError(delErr).WithField("pic_id", pic.ID).Warn("pic rollback failed")
		}
		s.discard(ctx, key)
		return nil, err
	}
	return pic, nil
}

func (s *PicService) Get(ctx context.Context, id string) (*entity.Pic, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.Pics.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "pic")
	}
	return p, nil
}

// Detach deletes the owner's current picture: the blob first, then the
// owner's URI, then the record. A blob failure aborts before anything else
// changes.
func (s *PicService) Detach(ctx context.Context, userID string, kind entity.OwnerKind, ownerID string) error {
	if !kind.Valid() {
		return apperror.NotFound("unknown pic owner " + string(kind))
	}
	current, err := s.currentURI(ctx, kind, ownerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, kind, ownerID); err != nil {
		return err
	}
	pics, err := s.Pics.ListByOwner(ctx, ownerID)
	if err != nil {
		return storeErr(err, "pic")
	}
	if len(pics) == 0 {
		return apperror.NotFound("pic not found")
	}
	pic := pics[len(pics)-1]
	for _, p := range pics {
		if current != nil && p.ImageURI == *current {
			pic = p
			break
		}
	}
	if s.Blob == nil {
		return errNoBlobStore
	}

	err = s.Blob.Delete(ctx, pic.ObjectKey)
	s.Metrics.ObserveBlob("delete", err)
	if err != nil {
		return apperror.Internal("delete image", err)
	}
	if err := s.Relations.SetPicURI(ctx, kind, ownerID, nil); err != nil {
		return err
	}
	if err := s.Pics.Delete(ctx, pic.ID); err != nil {
		return storeErr(err, "pic")
	}
	return nil
}

// authorize checks that userID may change the pictures of the owner.
func (s *PicService) authorize(ctx context.Context, userID string, kind entity.OwnerKind, ownerID string) error {
	if kind == entity.OwnerProfile {
		_, err := s.Profiles.owned(ctx, ownerID, userID)
		return err
	}
	if err := checkID(ownerID); err != nil {
		return err
	}
	r, err := s.Recipes.GetByID(ctx, ownerID)
	if err != nil {
		return storeErr(err, "recipe")
	}
	p, err := s.Profiles.ForUser(ctx, userID)
	if err != nil || p.ID != r.ProfileID {
		if err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return err
		}
		return apperror.Auth("not the owner of this recipe")
	}
	return nil
}

func (s *PicService) currentURI(ctx context.Context, kind entity.OwnerKind, ownerID string) (*string, error) {
	if err := checkID(ownerID); err != nil {
		return nil, err
	}
	if kind == entity.OwnerRecipe {
		r, err := s.Recipes.GetByID(ctx, ownerID)
		if err != nil {
			return nil, storeErr(err, "recipe")
		}
		return r.RecipePicURI, nil
	}
	p, err := s.Profiles.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return p.ProfilePicURI, nil
}

// spool copies the upload to a temp file, rewound for reading, and settles
// the content type from the first bytes when the client sent none.
func (s *PicService) spool(up Upload) (*os.File, string, error) {
	f, err := os.CreateTemp(s.TempDir, "upload-*"+filepath.Ext(up.Filename))
	if err != nil {
		return nil, "", apperror.Internal("spool upload", err)
	}
	fail := func(err error) (*os.File, string, error) {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, "", err
	}
	n, err := io.Copy(f, up.Body)
	if err != nil {
		return fail(apperror.Internal("spool upload", err))
	}
	if n == 0 {
		return fail(apperror.Validation("image file is empty"))
	}

	head := make([]byte, 512)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail(apperror.Internal("spool upload", err))
	}
	m, _ := io.ReadFull(f, head)
	contentType := up.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(head[:m])
	}
	if !strings.HasPrefix(contentType, "image/") {
		return fail(apperror.Validation("file must be an image"))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail(apperror.Internal("spool upload", err))
	}
	return f, contentType, nil
}

// discard removes an uploaded object whose record could not be kept.
func (s *PicService) discard(ctx context.Context, key string) {
	err := s.Blob.Delete(ctx, key)
	s.Metrics.ObserveBlob("delete", err)
	if err != nil {
		s.log().WithError(err).WithField("object_key", key).Warn("orphaned upload not removed")
	}
}

func (s *PicService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func objectKey(kind entity.OwnerKind, ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("pics", string(kind), ownerID, uuid.NewString()+ext)
}
