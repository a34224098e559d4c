package repositories

import (
	"errors"
	"testing"

	"coursehub/apperr"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapErrMessages(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		kind    apperr.Kind
		message string
	}{
		{"SubCategory", gorm.ErrRecordNotFound, apperr.KindNotFound, "SubCategory not found!"},
		{"SubCategory", errors.New("disk full"), apperr.KindInternal, "Failed to update subcategory"},
		{"Étude", errors.New("disk full"), apperr.KindInternal, "Failed to update étude"},
		{"Payment", gorm.ErrForeignKeyViolated, apperr.KindConflict, "Payment is still referenced by other records"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			err := wrapErr(tc.err, tc.name, "update")

			var appErr *apperr.Error
			assert.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.kind, appErr.Kind)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}

	passthrough := apperr.Conflict("already there")
	assert.Same(t, passthrough, wrapErr(passthrough, "Tag", "create"))
}
