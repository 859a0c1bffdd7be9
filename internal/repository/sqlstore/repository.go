// Package sqlstore provides a relational implementation of the repository
// interface for PostgreSQL and SQLite
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/navikt/zbook/internal/config"
	"github.com/navikt/zbook/internal/models"
)

var roomColumns = []string{
	"id", "name", "location", "capacity", "work_start", "work_end", "amenities", "active",
}

var bookingColumns = []string{
	"id", "room_id", "title", "start_at", "end_at", "created_at", "updated_at",
}

// Repository implements the repository interface on database/sql.
// Timestamps are stored as Unix microseconds so both dialects share one schema.
type Repository struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
}

// Open connects to the configured database and migrates the schema
func Open(cfg config.SQLConfig) (*Repository, error) {
	var placeholder squirrel.PlaceholderFormat
	switch cfg.Driver {
	case "postgres":
		placeholder = squirrel.Dollar
	case "sqlite":
		placeholder = squirrel.Question
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Migrate creates the tables if they do not exist
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %v", ErrExecQuery, err)
		}
	}
	return nil
}

// SaveRoom creates or replaces a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	amenities, err := json.Marshal(room.Amenities)
	if err != nil {
		return fmt.Errorf("failed to marshal amenities: %w", err)
	}

	query, args, err := r.builder.Insert("rooms").
		Columns(roomColumns...).
		Values(
			room.ID,
			room.Name,
			room.Location,
			room.Capacity,
			int(room.WorkHours.Start),
			int(room.WorkHours.End),
			string(amenities),
			room.Active,
		).
		Suffix(upsertSuffix(roomColumns)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveRoom: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveRoom: %v", ErrExecQuery, err)
	}
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	query, args, err := r.builder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom: %v", ErrBuildQuery, err)
	}

	room, err := scanRoom(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom: %v", ErrScanRow, err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	query, args, err := r.builder.Select(roomColumns...).
		From("rooms").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRooms: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRooms: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListRooms: %v", ErrScanRow, err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRooms: %v", ErrScanRow, err)
	}
	return rooms, nil
}

// DeleteRoom removes a room and all of its bookings
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: DeleteRoom: begin: %v", ErrExecQuery, err)
	}
	defer tx.Rollback()

	deleteBookings, args, err := r.builder.Delete("bookings").Where(squirrel.Eq{"room_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteRoom: %v", ErrBuildQuery, err)
	}
	if _, err := tx.ExecContext(ctx, deleteBookings, args...); err != nil {
		return fmt.Errorf("%w: DeleteRoom: %v", ErrExecQuery, err)
	}

	deleteRoom, args, err := r.builder.Delete("rooms").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteRoom: %v", ErrBuildQuery, err)
	}
	res, err := tx.ExecContext(ctx, deleteRoom, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteRoom: %v", ErrExecQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: DeleteRoom: commit: %v", ErrExecQuery, err)
	}
	return nil
}

// SaveBooking creates or replaces a booking
func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	query, args, err := r.builder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			booking.ID,
			booking.RoomID,
			booking.Title,
			toUnix(booking.Start),
			toUnix(booking.End),
			toUnix(booking.CreatedAt),
			toUnix(booking.UpdatedAt),
		).
		Suffix(upsertSuffix(bookingColumns)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveBooking: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveBooking: %v", ErrExecQuery, err)
	}
	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query, args, err := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBooking: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBooking: %v", ErrScanRow, err)
	}
	return booking, nil
}

// ListBookings returns all bookings ordered by start time
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return r.listBookings(ctx, r.builder.Select(bookingColumns...).From("bookings"))
}

// ListBookingsForRoom returns the bookings of one room ordered by start time
func (r *Repository) ListBookingsForRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	return r.listBookings(ctx, r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"room_id": roomID}))
}

// DeleteBooking removes a booking by ID
func (r *Repository) DeleteBooking(ctx context.Context, id string) error {
	query, args, err := r.builder.Delete("bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBooking: %v", ErrBuildQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBooking: %v", ErrExecQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) listBookings(ctx context.Context, sb squirrel.SelectBuilder) ([]*models.Booking, error) {
	query, args, err := sb.OrderBy("start_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listBookings: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listBookings: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: listBookings: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listBookings: %v", ErrScanRow, err)
	}
	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*models.Room, error) {
	var (
		room               models.Room
		workStart, workEnd int
		amenities          string
	)
	if err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Location,
		&room.Capacity,
		&workStart,
		&workEnd,
		&amenities,
		&room.Active,
	); err != nil {
		return nil, err
	}

	room.WorkHours = models.WorkHours{Start: models.TimeOfDay(workStart), End: models.TimeOfDay(workEnd)}
	if err := json.Unmarshal([]byte(amenities), &room.Amenities); err != nil {
		return nil, fmt.Errorf("decode amenities: %w", err)
	}
	return &room, nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		booking              models.Booking
		start, end           int64
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.Title,
		&start,
		&end,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	booking.Start = fromUnix(start)
	booking.End = fromUnix(end)
	booking.CreatedAt = fromUnix(createdAt)
	booking.UpdatedAt = fromUnix(updatedAt)
	return &booking, nil
}

// upsertSuffix builds an ON CONFLICT clause understood by PostgreSQL and SQLite
func upsertSuffix(columns []string) string {
	suffix := "ON CONFLICT (id) DO UPDATE SET "
	for i, c := range columns[1:] {
		if i > 0 {
			suffix += ", "
		}
		suffix += c + " = excluded." + c
	}
	return suffix
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.UnixMicro(n).UTC()
}
