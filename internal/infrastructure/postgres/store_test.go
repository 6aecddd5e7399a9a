package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

func TestSetListUpdate(t *testing.T) {
	var s setList
	assert.True(t, s.empty())
	s.add("name", "Alice")
	s.add("profile_pic_uri", nil)

	q, args := s.update("profiles", "p1", "id, name")
	assert.Equal(t, `UPDATE profiles SET name = $1, profile_pic_uri = $2 WHERE id = $3 RETURNING id, name`, q)
	assert.Equal(t, []any{"Alice", nil, "p1"}, args)
}

func TestOrderByIDs(t *testing.T) {
	type doc struct{ id string }
	got := orderByIDs([]string{"c", "x", "a"}, []doc{{"a"}, {"b"}, {"c"}}, func(d doc) string { return d.id })
	assert.Equal(t, []doc{{"c"}, {"a"}}, got)
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)

	dup := mapErr(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_username_key"})
	assert.ErrorIs(t, dup, repository.ErrDuplicate)
	assert.Contains(t, dup.Error(), "users_username_key")

	other := errors.New("connection reset")
	assert.Same(t, other, mapErr(other))
}

func TestRefsRejectUnknownField(t *testing.T) {
	r := NewRecipeRepository(nil)
	_, err := r.column(repository.RefRecipes)
	assert.Error(t, err)
	col, err := r.column(repository.RefUpvotes)
	assert.NoError(t, err)
	assert.Equal(t, "upvotes", col)
}
