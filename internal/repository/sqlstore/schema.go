package sqlstore

// schema is valid for both PostgreSQL and SQLite
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		location   TEXT NOT NULL,
		capacity   INTEGER NOT NULL,
		work_start INTEGER NOT NULL,
		work_end   INTEGER NOT NULL,
		amenities  TEXT NOT NULL DEFAULT '[]',
		active     BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		start_at   BIGINT NOT NULL,
		end_at     BIGINT NOT NULL,
		created_at BIGINT NOT NULL DEFAULT 0,
		updated_at BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_room_start_idx ON bookings (room_id, start_at)`,
}
