package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func newID() string { return uuid.NewString() }

// checkID rejects ids that could never resolve; they are reported as CastError.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.Cast(id)
	}
	return nil
}

// storeErr translates repository errors into application errors.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(what + " not found")
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Validation(what + " already exists")
	case errors.Is(err, context.Canceled):
		return apperror.Internal("request canceled", err)
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Internal(what+" store failure", err)
}
