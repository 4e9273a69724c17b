package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffihq/recipe-api/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorPassesThroughHTTPError(t *testing.T) {
	original := errs.NewForbiddenError("no", false)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
	assert.Contains(t, httpErr.Message, "Email")
	assert.True(t, httpErr.Override)
}

func TestHandleErrorUniqueViolationAttributeConstraint(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "tags",
		ConstraintName: "tags_name_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, "TAG_ALREADY_EXISTS", httpErr.Code)
	assert.Contains(t, httpErr.Message, "Name")
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		Severity:   "ERROR",
		TableName:  "recipes",
		ColumnName: "user_id",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "RECIPE_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced User does not exist", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "recipes",
		ColumnName: "title",
	})

	httpErr := asHTTPError(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestHandleErrorAnnotatedNoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("table:recipes: %w", pgx.ErrNoRows))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Recipe not found", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorPlainNoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))

	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknownFallsBackTo500(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})

	assert.Equal(t, UniqueViolation, ErrCode(converted))
	assert.Equal(t, Other, ErrCode(errors.New("nope")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "name", extractColumnForUniqueViolation("unique_tags_name"))
	assert.Equal(t, "", extractColumnForUniqueViolation("weird"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}
