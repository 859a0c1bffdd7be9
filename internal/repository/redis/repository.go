// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/navikt/zbook/internal/config"
	"github.com/navikt/zbook/internal/models"
	"github.com/redis/go-redis/v9"
)

// Common errors
var (
	ErrNotFound = models.ErrNotFound
)

// Repository implements the repository interface with Redis storage.
//
// Rooms and bookings are JSON strings under "<prefix>room:<id>" and
// "<prefix>booking:<id>". Each room has a set "<prefix>room-bookings:<id>"
// holding the IDs of its bookings.
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		// Use password from config if not in URI or if empty in URI
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.BookingTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) roomKey(id string) string {
	return fmt.Sprintf("%sroom:%s", r.keyPrefix, id)
}

func (r *Repository) bookingKey(id string) string {
	return fmt.Sprintf("%sbooking:%s", r.keyPrefix, id)
}

func (r *Repository) roomBookingsKey(roomID string) string {
	return fmt.Sprintf("%sroom-bookings:%s", r.keyPrefix, roomID)
}

// SaveRoom creates or replaces a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	if err := r.client.Set(ctx, r.roomKey(room.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	data, err := r.client.Get(ctx, r.roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}
	return &room, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	keys, err := r.client.Keys(ctx, r.roomKey("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	values, err := r.mget(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get room data: %w", err)
	}

	rooms := make([]*models.Room, 0, len(values))
	for _, data := range values {
		var room models.Room
		if err := json.Unmarshal(data, &room); err != nil {
			continue
		}
		rooms = append(rooms, &room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	return rooms, nil
}

// DeleteRoom removes a room and all of its bookings
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	key := r.roomKey(id)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	bookingIDs, err := r.client.SMembers(ctx, r.roomBookingsKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to list room bookings: %w", err)
	}

	// Use a pipeline to delete the room, its index and its bookings in one roundtrip
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key, r.roomBookingsKey(id))
	for _, bookingID := range bookingIDs {
		pipe.Del(ctx, r.bookingKey(bookingID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// SaveBooking creates or replaces a booking, moving it between rooms if needed
func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	previous, err := r.GetBooking(ctx, booking.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	pipe := r.client.TxPipeline()
	if previous != nil && previous.RoomID != booking.RoomID {
		pipe.SRem(ctx, r.roomBookingsKey(previous.RoomID), booking.ID)
	}
	pipe.Set(ctx, r.bookingKey(booking.ID), data, r.ttl)
	pipe.SAdd(ctx, r.roomBookingsKey(booking.RoomID), booking.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	data, err := r.client.Get(ctx, r.bookingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	var booking models.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	return &booking, nil
}

// ListBookings returns all bookings ordered by start time
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	keys, err := r.client.Keys(ctx, r.bookingKey("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return r.loadBookings(ctx, keys)
}

// ListBookingsForRoom returns the bookings of one room ordered by start time.
// Index entries whose booking has expired are skipped.
func (r *Repository) ListBookingsForRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	ids, err := r.client.SMembers(ctx, r.roomBookingsKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list room bookings: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.bookingKey(id))
	}
	return r.loadBookings(ctx, keys)
}

// DeleteBooking removes a booking by ID
func (r *Repository) DeleteBooking(ctx context.Context, id string) error {
	booking, err := r.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.bookingKey(id))
	pipe.SRem(ctx, r.roomBookingsKey(booking.RoomID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	return nil
}

func (r *Repository) loadBookings(ctx context.Context, keys []string) ([]*models.Booking, error) {
	values, err := r.mget(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking data: %w", err)
	}

	bookings := make([]*models.Booking, 0, len(values))
	for _, data := range values {
		var booking models.Booking
		if err := json.Unmarshal(data, &booking); err != nil {
			continue
		}
		bookings = append(bookings, &booking)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].Start.Before(bookings[j].Start)
		}
		return bookings[i].ID < bookings[j].ID
	})

	return bookings, nil
}

// mget uses MGET to retrieve all values in a single roundtrip, skipping missing keys
func (r *Repository) mget(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([][]byte, 0, len(values))
	for _, v := range values {
		strData, ok := v.(string)
		if !ok {
			continue
		}
		result = append(result, []byte(strData))
	}
	return result, nil
}
