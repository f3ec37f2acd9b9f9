package unique

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestIsViolation(t *testing.T) {
	assert.True(t, IsViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsViolation(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.True(t, IsViolation(fmt.Errorf("create: %w", &pq.Error{Code: "23505"})))

	assert.False(t, IsViolation(&pq.Error{Code: "40001"}))
	assert.False(t, IsViolation(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
	assert.False(t, IsViolation(errors.New("duplicate")))
	assert.False(t, IsViolation(nil))
}
