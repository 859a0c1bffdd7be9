package memory_test

import (
	"context"
	"testing"

	"github.com/navikt/zbook/internal/repository"
	"github.com/navikt/zbook/internal/repository/memory"
	"github.com/navikt/zbook/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Repository {
		return memory.NewRepository()
	})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	room := repotest.Room("room1", "Fjorden")
	require.NoError(t, repo.SaveRoom(ctx, room))
	room.Amenities[0] = "changed after save"

	saved, err := repo.GetRoom(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, "screen", saved.Amenities[0])

	saved.Name = "changed after get"
	again, err := repo.GetRoom(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, "Fjorden", again.Name)

	booking := repotest.Booking("b1", "room1", 9, 10)
	require.NoError(t, repo.SaveBooking(ctx, booking))
	booking.Title = "changed after save"

	stored, err := repo.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", stored.Title)
}
