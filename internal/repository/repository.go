// Package repository implements postgres persistence for users, channels,
// and binds. Repositories hold only the shared *sqlx.DB pool; every call
// acquires and releases its own connection via the pool.
package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a postgres unique-key conflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
