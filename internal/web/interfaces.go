package web

import (
	"context"

	"github.com/navikt/zbook/internal/models"
)

// StatusSource provides the room status board pushed to clients
type StatusSource interface {
	RoomStatuses(ctx context.Context) ([]models.RoomStatus, error)
}
