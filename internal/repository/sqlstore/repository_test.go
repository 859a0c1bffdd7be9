package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/navikt/zbook/internal/config"
	"github.com/navikt/zbook/internal/repository"
	"github.com/navikt/zbook/internal/repository/repotest"
	"github.com/navikt/zbook/internal/repository/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sqlstore.Repository {
	t.Helper()
	repo, err := sqlstore.Open(config.SQLConfig{
		Driver: "sqlite",
		DSN:    "file:" + filepath.Join(t.TempDir(), "zbook.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Repository {
		return openSQLite(t)
	})
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := sqlstore.Open(config.SQLConfig{Driver: "mysql", DSN: "x"})
	assert.ErrorIs(t, err, sqlstore.ErrUnsupportedDriver)
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRoom(ctx, repotest.Room("room1", "Fjorden")))
	require.NoError(t, repo.Migrate(ctx))

	room, err := repo.GetRoom(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, "Fjorden", room.Name)
}

func TestRoomWithoutAmenities(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()

	room := repotest.Room("room1", "Fjorden")
	room.Amenities = nil
	require.NoError(t, repo.SaveRoom(ctx, room))

	saved, err := repo.GetRoom(ctx, "room1")
	require.NoError(t, err)
	assert.Empty(t, saved.Amenities)
}

func TestBookingTimesKeepInstant(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRoom(ctx, repotest.Room("room1", "Fjorden")))
	b := repotest.Booking("b1", "room1", 9, 10)
	require.NoError(t, repo.SaveBooking(ctx, b))

	saved, err := repo.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, b.Start.Equal(saved.Start))
	assert.True(t, b.End.Equal(saved.End))
	assert.True(t, b.CreatedAt.Equal(saved.CreatedAt))
}
