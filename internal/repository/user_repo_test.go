package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder captures every statement gorm renders so tests can assert
// on the SQL text itself, not just the scan results.
type sqlRecorder struct {
	queries []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})   {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.queries = append(r.queries, sql)
}

func setupUserRepoTest(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()

	recorder := &sqlRecorder{}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         recorder,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db, recorder
}

func seedRepoUser(t *testing.T, db *gorm.DB, username, role, status string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.User{
		Username: username, Email: username + "@example.com", FullName: "U " + username,
		PasswordHash: "x", Role: role, Status: status,
	}).Error)
}

func TestUserCountsGroupedByStatusAndRole(t *testing.T) {
	db, _ := setupUserRepoTest(t)
	repo := NewUserRepository(db)

	seedRepoUser(t, db, "a1", domain.RoleAdmin, domain.StatusActive)
	seedRepoUser(t, db, "c1", domain.RoleClient, domain.StatusActive)
	seedRepoUser(t, db, "c2", domain.RoleClient, domain.StatusActive)
	seedRepoUser(t, db, "adv1", domain.RoleAdvocate, domain.StatusPending)
	seedRepoUser(t, db, "adv2", domain.RoleAdvocate, domain.StatusSuspended)

	byStatus, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(3), byStatus[domain.StatusActive])
	assert.Equal(t, int64(1), byStatus[domain.StatusPending])
	assert.Equal(t, int64(1), byStatus[domain.StatusSuspended])

	byRole, err := repo.CountByRole()
	require.NoError(t, err)
	assert.Equal(t, int64(1), byRole[domain.RoleAdmin])
	assert.Equal(t, int64(2), byRole[domain.RoleClient])
	assert.Equal(t, int64(2), byRole[domain.RoleAdvocate])
}

// The grouped count must not alias its columns to MySQL reserved words.
// KEY is reserved there, so `status AS key` is a syntax error on the
// production driver even though SQLite accepts it.
func TestUserCountGroupedEmitsNoReservedAlias(t *testing.T) {
	db, recorder := setupUserRepoTest(t)
	repo := NewUserRepository(db)
	seedRepoUser(t, db, "c1", domain.RoleClient, domain.StatusActive)

	recorder.queries = nil
	_, err := repo.CountByStatus()
	require.NoError(t, err)

	require.NotEmpty(t, recorder.queries)
	for _, q := range recorder.queries {
		lower := strings.ToLower(q)
		assert.NotContains(t, lower, " as key", "rendered SQL: %s", q)
		assert.NotContains(t, lower, " as count", "rendered SQL: %s", q)
	}
}
