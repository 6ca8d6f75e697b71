package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SchemaVersion is the database version this binary expects. The server
// refuses to start against any other version.
const SchemaVersion = 1

// Migration is one versioned schema step. Up brings the database from
// Version-1 to Version; Down reverses it.
type Migration struct {
	Version int
	Up      string
	Down    string
}

const migrationV1Up = `
CREATE TABLE IF NOT EXISTS users(
    id          SERIAL          PRIMARY KEY,
    email       VARCHAR(255)    NOT NULL,
    username    VARCHAR(255)    NOT NULL,
    digest      VARCHAR(255)    NOT NULL,
    is_active   BOOLEAN         NOT NULL,
    created_at  TIMESTAMPTZ     NOT NULL,
    avatar_id   INTEGER
);
CREATE TABLE IF NOT EXISTS files(
    id              SERIAL          PRIMARY KEY,
    fs_filename     TEXT            NOT NULL,
    filename        TEXT            NOT NULL,
    content_type    TEXT            NOT NULL,
    size            BIGINT          NOT NULL,
    checksum        TEXT            NOT NULL,
    uploaded_at     TIMESTAMPTZ     NOT NULL,
    user_id         INTEGER         NOT NULL        REFERENCES users(id)
);

ALTER TABLE users
ADD CONSTRAINT users_avatar_id_fkey FOREIGN KEY(avatar_id) REFERENCES files(id);

CREATE TABLE IF NOT EXISTS todos(
    id          SERIAL          PRIMARY KEY,
    status      VARCHAR(255)    NOT NULL,
    description TEXT            NOT NULL,
    created_at  TIMESTAMPTZ     NOT NULL,
    created_by  INTEGER         NOT NULL        REFERENCES users(id),
    modified_at TIMESTAMPTZ     NOT NULL
);
CREATE TABLE IF NOT EXISTS rooms(
    id          SERIAL          PRIMARY KEY,
    name        VARCHAR(255)    NOT NULL UNIQUE,
    created_by  INTEGER         NOT NULL        REFERENCES users(id),
    created_at  TIMESTAMPTZ     NOT NULL
);
CREATE TABLE IF NOT EXISTS messages(
    id          SERIAL          PRIMARY KEY,
    content     TEXT            NOT NULL,
    room_id     INTEGER         NOT NULL        REFERENCES rooms(id),
    created_by  INTEGER         NOT NULL        REFERENCES users(id),
    created_at  TIMESTAMPTZ     NOT NULL
);
CREATE INDEX IF NOT EXISTS messages_room_id_index ON messages(room_id);
CREATE TABLE IF NOT EXISTS version(
    id          SERIAL          PRIMARY KEY,
    version     INTEGER         NOT NULL
);
INSERT INTO version(version) VALUES(1);
`

const migrationV1Down = `
DROP TABLE IF EXISTS messages;
DROP TABLE IF EXISTS rooms;
DROP TABLE IF EXISTS todos;
ALTER TABLE users DROP CONSTRAINT IF EXISTS users_avatar_id_fkey;
DROP TABLE IF EXISTS files;
DROP TABLE IF EXISTS users;
DROP TABLE IF EXISTS version;
`

// Migrations in ascending version order.
var Migrations = []Migration{
	{Version: 1, Up: migrationV1Up, Down: migrationV1Down},
}

// Version returns the current database schema version; 0 when the version
// table does not exist yet.
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	err := s.pool.QueryRow(ctx, `SELECT version FROM version`).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
			return 0, nil
		}
		return 0, fmt.Errorf("db: read version: %w", err)
	}
	return version, nil
}

// MigrateUp applies every pending migration, each in its own transaction.
// A migration only runs when the database sits exactly one version below it.
func (s *Store) MigrateUp(ctx context.Context) error {
	for _, m := range Migrations {
		version, err := s.Version(ctx)
		if err != nil {
			return err
		}
		if version != m.Version-1 {
			log.Printf("db: skip migration %d: current version is %d", m.Version, version)
			continue
		}
		if err := s.runMigration(ctx, m.Up, m.Version); err != nil {
			return fmt.Errorf("db: migrate up to %d: %w", m.Version, err)
		}
		log.Printf("db: migrated up to version %d", m.Version)
	}
	return nil
}

// MigrateDown reverses every applied migration, newest first.
func (s *Store) MigrateDown(ctx context.Context) error {
	for i := len(Migrations) - 1; i >= 0; i-- {
		m := Migrations[i]
		version, err := s.Version(ctx)
		if err != nil {
			return err
		}
		if version != m.Version {
			log.Printf("db: skip down migration %d: current version is %d", m.Version, version)
			continue
		}
		if err := s.runMigration(ctx, m.Down, m.Version-1); err != nil {
			return fmt.Errorf("db: migrate down from %d: %w", m.Version, err)
		}
		log.Printf("db: migrated down to version %d", m.Version-1)
	}
	return nil
}

func (s *Store) runMigration(ctx context.Context, script string, targetVersion int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, script); err != nil {
		return err
	}
	// Version 1 creates and seeds the version table itself; version 0 drops
	// it. Anything in between records the new version explicitly.
	if targetVersion > 1 {
		if _, err := tx.Exec(ctx, `UPDATE version SET version = $1`, targetVersion); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
