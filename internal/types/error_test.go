package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/localstore/storeapi/internal/types"
)

// The whole taxonomy must stay matchable through wrapping, because
// services wrap transaction errors before handlers map them to
// responses.
func TestErrorsMatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while loading product: %w", types.NotFound("product", 42))

	var notFound *types.NotFoundError
	if !errors.As(wrapped, &notFound) {
		t.Fatal("Expected NotFoundError to match through wrapping")
	}
	if notFound.Entity != "product" || notFound.Ref != "42" {
		t.Errorf("Unexpected fields: %+v", notFound)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{types.NotFound("category", 7), "category 7 not found"},
		{&types.AlreadyExistsError{Entity: "feature", Ref: "color"}, "feature color already exists"},
		{&types.InvalidQueryError{Reason: "unknown sort field"}, "invalid query: unknown sort field"},
		{&types.ValidationError{Field: "price", Reason: "must be positive"}, "invalid price: must be positive"},
		{&types.WriteConflictError{Entity: "product", ID: 3}, "write conflict on product 3, retry the operation"},
		{&types.IntegrityError{Details: "one-sided edge"}, "integrity violation: one-sided edge"},
		{&types.CustomError{Code: 403, Message: "forbidden", Type: "store.authorization.admin"}, "403: forbidden [type: store.authorization.admin]"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}

// Distinct error kinds must not match each other's target type.
func TestErrorKindsAreDistinct(t *testing.T) {
	var exists *types.AlreadyExistsError
	if errors.As(types.NotFound("user", 1), &exists) {
		t.Error("NotFoundError must not match AlreadyExistsError")
	}
	var conflict *types.WriteConflictError
	if errors.As(&types.ValidationError{Field: "name"}, &conflict) {
		t.Error("ValidationError must not match WriteConflictError")
	}
}
