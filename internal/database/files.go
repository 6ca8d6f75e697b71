package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"chatrooms/internal/domain"
)

const fileColumns = "id, fs_filename, filename, content_type, size, checksum, uploaded_at, user_id"

// GetFileByID returns the file row with the given id, or ErrNotFound.
func (s *Store) GetFileByID(ctx context.Context, id int) (domain.FileDB, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	file, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.FileDB])
	if err != nil {
		return domain.FileDB{}, notFound(err)
	}
	return file, nil
}

// CreateFile records an uploaded file owned by userID.
func (s *Store) CreateFile(ctx context.Context, file domain.File, userID int) (domain.FileDB, error) {
	rows, _ := s.pool.Query(ctx,
		`INSERT INTO files(fs_filename, filename, content_type, size, checksum, uploaded_at, user_id)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+fileColumns,
		file.FSFilename, file.Filename, file.ContentType, file.Size, file.Checksum, file.UploadedAt, userID)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.FileDB])
}
