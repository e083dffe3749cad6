package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestAsConflictTranslatesLockErrors(t *testing.T) {
	lockWait := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.ErrorIs(t, asConflict(lockWait), ErrConcurrencyConflict)

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	assert.ErrorIs(t, asConflict(deadlock), ErrConcurrencyConflict)

	// Wrapped driver errors still translate.
	wrapped := fmt.Errorf("locking order: %w", lockWait)
	assert.ErrorIs(t, asConflict(wrapped), ErrConcurrencyConflict)
}

func TestAsConflictPassesOtherErrorsThrough(t *testing.T) {
	assert.NoError(t, asConflict(nil))

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.NotErrorIs(t, asConflict(dup), ErrConcurrencyConflict)

	plain := errors.New("boom")
	assert.Equal(t, plain, asConflict(plain))
}
