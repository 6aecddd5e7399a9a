package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/metrics"
)

// CascadeState is a state of the account deletion machine:
//
//	start -> recipes_removed -> comments_removed -> upvotes_removed ->
//	profile_removed -> user_removed -> pics_removed -> done
//
// with failed as the terminal state when a primary step did not succeed.
type CascadeState string

const (
	StateStart           CascadeState = "start"
	StateRecipesRemoved  CascadeState = "recipes_removed"
	StateCommentsRemoved CascadeState = "comments_removed"
	StateUpvotesRemoved  CascadeState = "upvotes_removed"
	StateProfileRemoved  CascadeState = "profile_removed"
	StateUserRemoved     CascadeState = "user_removed"
	StatePicsRemoved     CascadeState = "pics_removed"
	StateDone            CascadeState = "done"
	StateFailed          CascadeState = "failed"
)

type StepResult struct {
	State   CascadeState
	Removed int
	Err     error
}

// CascadeReport records what every step of one deletion did.
type CascadeReport struct {
	ProfileID string
	Username  string
	State     CascadeState
	Reason    string
	Steps     []StepResult
}

// StepErrors returns the errors of all steps, primary or not.
func (r *CascadeReport) StepErrors() []error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errs
}

// Err is non-nil only when the run ended in StateFailed.
func (r *CascadeReport) Err() error {
	if r.State != StateFailed {
		return nil
	}
	return apperror.Internal("account deletion failed: "+r.Reason, errors.Join(r.StepErrors()...))
}

// Step returns the result recorded for state s.
func (r *CascadeReport) Step(s CascadeState) (StepResult, bool) {
	for _, st := range r.Steps {
		if st.State == s {
			return st, true
		}
	}
	return StepResult{}, false
}

// CascadeDeleter removes a profile and everything attributed to it. The store
// does no cascading on its own, so every dependent collection is swept here.
type CascadeDeleter struct {
	Stores
	Relations *Relations
	Blob      BlobStore
	Index     RecipeIndex
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics

	// OnUserRemoved runs after the user record is gone.
	OnUserRemoved func(ctx context.Context, u *entity.User)
}

type cascadeRun struct {
	profileID string
	username  string
	recipeIDs []string
}

type cascadeStep struct {
	to      CascadeState
	primary bool
	run     func(ctx context.Context, r *cascadeRun) (int, error)
}

func (d *CascadeDeleter) steps() []cascadeStep {
	return []cascadeStep{
		{to: StateRecipesRemoved, run: d.removeRecipes},
		{to: StateCommentsRemoved, run: d.removeComments},
		{to: StateUpvotesRemoved, run: d.removeUpvotes},
		{to: StateProfileRemoved, primary: true, run: d.removeProfile},
		{to: StateUserRemoved, primary: true, run: d.removeUser},
		{to: StatePicsRemoved, run: d.removePics},
	}
}

// Run deletes the account of username and its profile profileID (which may be
// empty for an account that never created one). Every step runs even when an
// earlier one failed; only a failed primary step moves the run to
// StateFailed.
func (d *CascadeDeleter) Run(ctx context.Context, profileID, username string) *CascadeReport {
	report := &CascadeReport{ProfileID: profileID, Username: username, State: StateStart}
	run := &cascadeRun{profileID: profileID, username: username}

	var reasons []string
	for _, st := range d.steps() {
		n, err := st.run(ctx, run)
		report.Steps = append(report.Steps, StepResult{State: st.to, Removed: n, Err: err})
		d.Metrics.ObserveCascadeStep(string(st.to), err)
		if err != nil {
			d.log().WithError(err).WithFields(logrus.Fields{
				"step":       st.to,
				"primary":    st.primary,
				"profile_id": profileID,
				"username":   username,
			}).Warn("cascade step failed")
			if st.primary {
				reasons = append(reasons, string(st.to)+": "+apperror.PublicMessage(err))
			}
		}
		report.State = st.to
	}

	if len(reasons) > 0 {
		report.State = StateFailed
		report.Reason = strings.Join(reasons, "; ")
	} else {
		report.State = StateDone
	}
	d.log().WithFields(logrus.Fields{
		"profile_id": profileID,
		"username":   username,
		"state":      report.State,
	}).Info("account deletion finished")
	return report
}

func (d *CascadeDeleter) removeRecipes(ctx context.Context, r *cascadeRun) (int, error) {
	if r.profileID == "" {
		return 0, nil
	}
	recipes, err := d.Recipes.DeleteByProfile(ctx, r.profileID)
	if err != nil {
		return 0, storeErr(err, "recipe")
	}
	var errs []error
	for _, rc := range recipes {
		r.recipeIDs = append(r.recipeIDs, rc.ID)
		if err := d.purgeFeedback(ctx, rc.ID, r.profileID); err != nil {
			errs = append(errs, err)
		}
		d.unindex(ctx, rc.ID)
	}
	return len(recipes), errors.Join(errs...)
}

func (d *CascadeDeleter) removeComments(ctx context.Context, r *cascadeRun) (int, error) {
	if r.profileID == "" {
		return 0, nil
	}
	comments, err := d.Comments.DeleteByCommenter(ctx, r.profileID)
	if err != nil {
		return 0, storeErr(err, "comment")
	}
	var errs []error
	for _, c := range comments {
		err := d.Relations.Unlink(ctx, d.Relations.RecipeComments(), c.RecipeID, c.ID)
		if err = ignoreNotFound(err); err != nil {
			errs = append(errs, err)
		}
	}
	return len(comments), errors.Join(errs...)
}

func (d *CascadeDeleter) removeUpvotes(ctx context.Context, r *cascadeRun) (int, error) {
	if r.profileID == "" {
		return 0, nil
	}
	upvotes, err := d.Upvotes.DeleteByVoter(ctx, r.profileID)
	if err != nil {
		return 0, storeErr(err, "upvote")
	}
	var errs []error
	for _, u := range upvotes {
		err := d.Relations.Unlink(ctx, d.Relations.RecipeUpvotes(), u.RecipeID, u.ID)
		if err = ignoreNotFound(err); err != nil {
			errs = append(errs, err)
		}
	}
	return len(upvotes), errors.Join(errs...)
}

func (d *CascadeDeleter) removeProfile(ctx context.Context, r *cascadeRun) (int, error) {
	if r.profileID == "" {
		return 0, nil
	}
	if err := d.Profiles.Delete(ctx, r.profileID); err != nil {
		return 0, storeErr(err, "profile")
	}
	return 1, nil
}

func (d *CascadeDeleter) removeUser(ctx context.Context, r *cascadeRun) (int, error) {
	u, err := d.Users.GetByUsername(ctx, r.username)
	if err != nil {
		return 0, storeErr(err, "user")
	}
	if err := d.Users.DeleteByUsername(ctx, r.username); err != nil {
		return 0, storeErr(err, "user")
	}
	if d.OnUserRemoved != nil {
		d.OnUserRemoved(ctx, u)
	}
	return 1, nil
}

func (d *CascadeDeleter) removePics(ctx context.Context, r *cascadeRun) (int, error) {
	owners := make([]string, 0, len(r.recipeIDs)+1)
	if r.profileID != "" {
		owners = append(owners, r.profileID)
	}
	owners = append(owners, r.recipeIDs...)
	return d.purgePics(ctx, owners)
}

// PurgeRecipe removes what hangs off a recipe that was just deleted: the
// comments and upvotes posted on it (unlinked from their authors), its pics
// and its search entry.
func (d *CascadeDeleter) PurgeRecipe(ctx context.Context, recipeID string) error {
	var errs []error
	if err := d.purgeFeedback(ctx, recipeID, ""); err != nil {
		errs = append(errs, err)
	}
	if _, err := d.purgePics(ctx, []string{recipeID}); err != nil {
		errs = append(errs, err)
	}
	d.unindex(ctx, recipeID)
	return errors.Join(errs...)
}

// purgeFeedback deletes the comments and upvotes on recipeID and unlinks them
// from their authors. Authors equal to skipProfile are being deleted anyway.
func (d *CascadeDeleter) purgeFeedback(ctx context.Context, recipeID, skipProfile string) error {
	var errs []error
	comments, err := d.Comments.DeleteByRecipe(ctx, recipeID)
	if err != nil {
		errs = append(errs, storeErr(err, "comment"))
	}
	for _, c := range comments {
		if c.CommenterProfileID == skipProfile {
			continue
		}
		err := d.Relations.Unlink(ctx, d.Relations.ProfileComments(), c.CommenterProfileID, c.ID)
		if err = ignoreNotFound(err); err != nil {
			errs = append(errs, err)
		}
	}
	upvotes, err := d.Upvotes.DeleteByRecipe(ctx, recipeID)
	if err != nil {
		errs = append(errs, storeErr(err, "upvote"))
	}
	for _, u := range upvotes {
		if u.VoterProfileID == skipProfile {
			continue
		}
		err := d.Relations.Unlink(ctx, d.Relations.ProfileUpvotes(), u.VoterProfileID, u.ID)
		if err = ignoreNotFound(err); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *CascadeDeleter) purgePics(ctx context.Context, ownerIDs []string) (int, error) {
	if len(ownerIDs) == 0 {
		return 0, nil
	}
	pics, err := d.Pics.DeleteByOwners(ctx, ownerIDs)
	if err != nil {
		return 0, storeErr(err, "pic")
	}
	var errs []error
	if d.Blob != nil {
		for _, p := range pics {
			err := d.Blob.Delete(ctx, p.ObjectKey)
			d.Metrics.ObserveBlob("delete", err)
			if err != nil {
				errs = append(errs, apperror.Internal("blob delete "+p.ObjectKey, err))
			}
		}
	}
	return len(pics), errors.Join(errs...)
}

func (d *CascadeDeleter) unindex(ctx context.Context, recipeID string) {
	if d.Index == nil {
		return
	}
	if err := d.Index.Remove(ctx, recipeID); err != nil {
		d.log().WithError(err).WithField("recipe_id", recipeID).Warn("search unindex failed")
	}
}

func (d *CascadeDeleter) log() logrus.FieldLogger {
	if d.Logger == nil {
		return logrus.StandardLogger()
	}
	return d.Logger
}

// ignoreNotFound drops NotFound: the reference was already gone.
func ignoreNotFound(err error) error {
	if apperror.Is(err, apperror.KindNotFound) || errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
