package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindsAndStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"validation", Validation("baker_id is required"), KindValidation, http.StatusBadRequest},
		{"conflict", Conflict("already following"), KindConflict, http.StatusConflict},
		{"not found", NotFound("follow relation not found"), KindNotFound, http.StatusNotFound},
		{"storage", Storage(errors.New("dial tcp: refused")), KindStorage, http.StatusServiceUnavailable},
		{"unauthorized", Unauthorized("no token"), KindUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not owner"), KindForbidden, http.StatusForbidden},
		{"rate limited", RateLimited("slow down"), KindRateLimited, http.StatusTooManyRequests},
		{"wrapped sentinel", fmt.Errorf("follow: %w", ErrConflict), KindConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, MapErrorToStatus(tt.err))
		})
	}
}

func TestStorage_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage(cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrStorage.Error(), PublicMessage(err))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "recipe"))

	err := FromDB(gorm.ErrRecordNotFound, "recipe")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "recipe not found", PublicMessage(err))

	err = FromDB(gorm.ErrDuplicatedKey, "review")
	assert.ErrorIs(t, err, ErrConflict)

	err = FromDB(errors.New("driver: bad connection"), "recipe")
	assert.ErrorIs(t, err, ErrStorage)

	already := Validation("x")
	assert.Same(t, already, FromDB(already, "recipe"))
}

func TestPublicMessage_HidesInternals(t *testing.T) {
	assert.Equal(t, ErrInternal.Error(), PublicMessage(errors.New("nil pointer somewhere")))
	assert.Equal(t, "baker_id is required", PublicMessage(Validation("baker_id is required")))
}
