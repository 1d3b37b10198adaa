package postgres

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "gorm translated", err: errors.Wrap(gorm.ErrDuplicatedKey, "insert"), want: true},
		{name: "raw pg error", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_recipients_email"}, want: true},
		{name: "wrapped pg error", err: errors.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "create"), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintViolation(tt.err))
		})
	}
}

func TestIsCheckConstraintViolation(t *testing.T) {
	assert.True(t, isCheckConstraintViolation(gorm.ErrCheckConstraintViolated))
	assert.True(t, isCheckConstraintViolation(&pgconn.PgError{Code: pgerrcode.CheckViolation}))
	assert.False(t, isCheckConstraintViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
}
