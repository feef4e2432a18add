// Package repository defines the error values shared by every repository.
// The store layer owns failure classification: raw driver errors never
// escape a repository method.  sql.ErrNoRows and MySQL duplicate-key
// errors are converted into these sentinels so handlers can switch on a
// closed set instead of sniffing driver error strings.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a referenced entity is absent or has been
// soft-deleted. Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into an HTTP 403
// response. It is only ever returned after the resource's existence has
// been confirmed, so a non-owner probing a nonexistent id sees 404.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicate is returned when the engine rejects an insert because of a
// uniqueness constraint, e.g. a second report from the same user against
// the same smoke. Handlers translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// isDuplicateKey reports whether err is a MySQL ER_DUP_ENTRY (1062)
// violation. The typed driver error is inspected rather than its message.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
