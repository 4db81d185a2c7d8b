package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"

	"addressbook/internal/auth"
	"addressbook/internal/db"
	"addressbook/internal/repository"
	"addressbook/internal/repository/repotest"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher  = auth.NewBcryptHasher(bcrypt.MinCost)
)

func TestSeedDemoData_EmptyStore(t *testing.T) {
	store := repotest.New()
	ctx := context.Background()

	seeded, err := SeedDemoData(ctx, store.Users(), hasher, discard)
	require.NoError(t, err)
	assert.True(t, seeded)

	user, err := store.Users().FindByEmail(ctx, DemoEmail)
	require.NoError(t, err)
	assert.True(t, hasher.Verify(DemoPassword, user.PasswordHash))

	contacts, err := store.Contacts().ListByOwner(ctx, user.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "john.doe@example.com", contacts[0].Email)
	assert.Equal(t, "123-456-7890", contacts[0].Phone)
	assert.Equal(t, "jane.smith@example.com", contacts[1].Email)
	assert.Equal(t, "456 Oak Ave", contacts[1].Address)
}

func TestSeedDemoData_RunsOnce(t *testing.T) {
	store := repotest.New()
	ctx := context.Background()

	_, err := SeedDemoData(ctx, store.Users(), hasher, discard)
	require.NoError(t, err)

	seeded, err := SeedDemoData(ctx, store.Users(), hasher, discard)
	require.NoError(t, err)
	assert.False(t, seeded)

	n, err := store.Users().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSeedDemoData_RollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := db.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), nil)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `contacts`")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	seeded, err := SeedDemoData(context.Background(), repository.NewUserRepository(gormDB), hasher, discard)
	require.Error(t, err)
	assert.False(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
