package application_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/infrastructure/memory"
	"github.com/oksasatya/cornucopia-api/pkg/helpers"
	"github.com/oksasatya/cornucopia-api/pkg/mailer"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type mockBlob struct {
	mock.Mock
	mu   sync.Mutex
	data map[string][]byte
}

// Put returns the configured base URL joined with key.
func (m *mockBlob) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	args := m.Called(ctx, key, contentType, r)
	if args.Error(1) == nil {
		m.mu.Lock()
		if m.data == nil {
			m.data = map[string][]byte{}
		}
		m.data[key] = b
		m.mu.Unlock()
	}
	return args.String(0) + key, args.Error(1)
}

func (m *mockBlob) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func (p *recordingPublisher) templates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, j := range p.jobs {
		out = append(out, j.Template)
	}
	return out
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	blob  *mockBlob
	pub   *recordingPublisher
	svc   *application.Services
}

func stores(s *memory.Store) application.Stores {
	return application.Stores{
		Users:    s.Users(),
		Profiles: s.Profiles(),
		Recipes:  s.Recipes(),
		Comments: s.Comments(),
		Upvotes:  s.Upvotes(),
		Pics:     s.Pics(),
	}
}

// newFixture wires the services over a fresh memory store. tweak may replace
// stores or adapters before the services are built.
func newFixture(t *testing.T, tweak ...func(*application.Options)) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: memory.NewStore(),
		blob:  &mockBlob{},
		pub:   &recordingPublisher{},
	}
	opts := application.Options{
		Stores:          stores(f.store),
		Blob:            f.blob,
		Publisher:       f.pub,
		Tokens:          helpers.NewJWTManager("test-secret", time.Hour),
		Logger:          helpers.NewLogger("test", "test"),
		TokenTTL:        time.Hour,
		UploadDir:       t.TempDir(),
		MailSendEnabled: true,
		AppName:         "Cornucopia",
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	f.svc = application.NewServices(opts)
	return f
}

// signup creates an account and returns its token and identity.
func (f *fixture) signup(username string) (string, application.Identity) {
	f.t.Helper()
	token, err := f.svc.Accounts.Signup(f.ctx, application.SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
	})
	require.NoError(f.t, err)
	id, err := f.svc.Accounts.ResolveToken(f.ctx, token)
	require.NoError(f.t, err)
	return token, *id
}

// member signs up username and creates its profile.
func (f *fixture) member(username string) (application.Identity, *entity.Profile) {
	f.t.Helper()
	_, who := f.signup(username)
	p, err := f.svc.Profiles.Create(f.ctx, who.UserID, application.CreateProfileInput{Name: username})
	require.NoError(f.t, err)
	return who, p
}

func (f *fixture) recipe(who application.Identity, name string) *entity.Recipe {
	f.t.Helper()
	out, err := f.svc.Recipes.Create(f.ctx, who.UserID, application.CreateRecipeInput{
		RecipeName:   name,
		Ingredients:  []string{"egg"},
		Instructions: "boil",
		Categories:   []string{"breakfast"},
	})
	require.NoError(f.t, err)
	return out.Recipe
}

func (f *fixture) comment(who application.Identity, recipeID, text string) *entity.Comment {
	f.t.Helper()
	out, err := f.svc.Comments.Create(f.ctx, who.UserID, recipeID, text)
	require.NoError(f.t, err)
	return out.Comment
}

func (f *fixture) upvote(who application.Identity, recipeID string) *entity.Upvote {
	f.t.Helper()
	out, err := f.svc.Upvotes.Create(f.ctx, who.UserID, recipeID, "up")
	require.NoError(f.t, err)
	return out.Upvote
}

func (f *fixture) getProfile(id string) *entity.Profile {
	f.t.Helper()
	p, err := f.store.Profiles().GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return p
}

func (f *fixture) getRecipe(id string) *entity.Recipe {
	f.t.Helper()
	r, err := f.store.Recipes().GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return r
}

func ptr[T any](v T) *T { return &v }
