package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRecord(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO console_audit_log").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Record(context.Background(), models.AuditLog{Resource: "users", TargetID: "7", Operation: "block", Reconcile: "patch", Outcome: models.AuditSucceeded})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRecordError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO console_audit_log").WillReturnError(errors.New("connection reset"))

	err := repo.Record(context.Background(), models.AuditLog{Resource: "users", TargetID: "7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record audit entry")
}

func TestAuditList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	code := appErrors.CodeServer
	rows := sqlmock.NewRows([]string{"id", "resource", "target_id", "operation", "reconcile", "outcome", "error_code", "message", "details", "created_at"}).
		AddRow("a1", "partners", "p1", "approve", "patch", models.AuditSucceeded, nil, nil, []byte(`{}`), now).
		AddRow("a2", "partners", "p1", "delete", "", models.AuditFailed, code, "boom", []byte(`{"kind":"delete"}`), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM console_audit_log WHERE resource = $1 AND target_id = $2 ORDER BY created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("partners", "p1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM console_audit_log WHERE resource = $1 AND target_id = $2")).
		WithArgs("partners", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	entries, total, err := repo.List(context.Background(), models.AuditFilter{Resource: "partners", TargetID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].ErrorCode)
	require.NotNil(t, entries[1].ErrorCode)
	assert.Equal(t, code, *entries[1].ErrorCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeCache struct {
	values map[string][]byte
	ttl    time.Duration
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.([]byte)
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := &fakeCache{values: map[string][]byte{}}
	repo := NewCacheRepository(client, "console", nil)

	var countries []models.Country
	assert.ErrorIs(t, repo.Get(ctx, "countries", &countries), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "countries", []models.Country{{ID: "ci", Name: "Côte d'Ivoire", Cities: []string{"Abidjan"}}}, time.Hour))
	assert.Equal(t, time.Hour, client.ttl)
	assert.Contains(t, client.values, "console:countries")

	require.NoError(t, repo.Get(ctx, "countries", &countries))
	require.Len(t, countries, 1)
	assert.Equal(t, "Abidjan", countries[0].Cities[0])

	require.NoError(t, repo.Delete(ctx, "countries"))
	assert.Empty(t, client.values)
}

func TestCacheWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "", nil)
	var v string
	assert.ErrorIs(t, repo.Get(context.Background(), "x", &v), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "x", "y", time.Minute))
}
