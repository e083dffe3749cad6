package service

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds an exclusive row lock to the query, the equivalent of
// SELECT ... FOR UPDATE. sqlite (the test dialect) serializes writers itself
// and does not parse the clause, so it is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// mysql server errors for lock wait timeout and deadlock victim.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// asConflict translates driver-level lock contention failures into the
// conflict sentinel so handlers can answer 409 instead of 500. Other errors
// pass through untouched.
func asConflict(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) &&
		(myErr.Number == mysqlErrLockWaitTimeout || myErr.Number == mysqlErrDeadlock) {
		return fmt.Errorf("%v: %w", err, ErrConcurrencyConflict)
	}
	return err
}
