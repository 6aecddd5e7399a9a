package application

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/metrics"
)

// Stores groups the repositories of every collection.
type Stores struct {
	Users    repository.UserRepository
	Profiles repository.ProfileRepository
	Recipes  repository.RecipeRepository
	Comments repository.CommentRepository
	Upvotes  repository.UpvoteRepository
	Pics     repository.PicRepository
}

// Options wires the services. Blob, Index, Publisher and Sessions may be nil.
type Options struct {
	Stores
	Blob      BlobStore
	Index     RecipeIndex
	Publisher Publisher
	Sessions  SessionCache
	Tokens    TokenIssuer
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics

	TokenTTL        time.Duration
	UploadDir       string
	MailSendEnabled bool
	AppName         string
	SupportURL      string
}

// Services is the application layer assembled from Options.
type Services struct {
	Relations *Relations
	Accounts  *AccountService
	Profiles  *ProfileService
	Recipes   *RecipeService
	Comments  *CommentService
	Upvotes   *UpvoteService
	Pics      *PicService
	Cascade   *CascadeDeleter
}

func NewServices(o Options) *Services {
	rel := NewRelations(o.Profiles, o.Recipes, o.Logger, o.Metrics)
	cascade := &CascadeDeleter{
		Stores:    o.Stores,
		Relations: rel,
		Blob:      o.Blob,
		Index:     o.Index,
		Logger:    o.Logger,
		Metrics:   o.Metrics,
	}
	profiles := &ProfileService{Profiles: o.Profiles, Recipes: o.Recipes, Comments: o.Comments, Upvotes: o.Upvotes, Cascade: cascade, Logger: o.Logger}
	accounts := &AccountService{
		Users:           o.Users,
		Profiles:        o.Profiles,
		Tokens:          o.Tokens,
		Sessions:        o.Sessions,
		Publisher:       o.Publisher,
		Cascade:         cascade,
		Logger:          o.Logger,
		TokenTTL:        o.TokenTTL,
		MailSendEnabled: o.MailSendEnabled,
		AppName:         o.AppName,
		SupportURL:      o.SupportURL,
	}
	cascade.OnUserRemoved = accounts.userRemoved
	return &Services{
		Relations: rel,
		Accounts:  accounts,
		Profiles:  profiles,
		Recipes: &RecipeService{
			Recipes:   o.Recipes,
			Comments:  o.Comments,
			Upvotes:   o.Upvotes,
			Profiles:  profiles,
			Relations: rel,
			Cascade:   cascade,
			Index:     o.Index,
			Logger:    o.Logger,
		},
		Comments: &CommentService{Comments: o.Comments, Recipes: o.Recipes, Profiles: profiles, Relations: rel, Logger: o.Logger},
		Upvotes:  &UpvoteService{Upvotes: o.Upvotes, Recipes: o.Recipes, Profiles: profiles, Relations: rel, Logger: o.Logger},
		Pics: &PicService{
			Pics:      o.Pics,
			Recipes:   o.Recipes,
			Profiles:  profiles,
			Relations: rel,
			Blob:      o.Blob,
			Logger:    o.Logger,
			Metrics:   o.Metrics,
			TempDir:   o.UploadDir,
		},
		Cascade: cascade,
	}
}
