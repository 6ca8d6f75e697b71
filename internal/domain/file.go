package domain

import "time"

// File describes a file written under the upload root. FSFilename is the
// path relative to the root; Filename is the name the client uploaded.
type File struct {
	FSFilename  string    `json:"fs_filename" db:"fs_filename"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	Checksum    string    `json:"checksum" db:"checksum"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// FileDB is a file row with its id and owner.
type FileDB struct {
	File
	ID     int `json:"id" db:"id"`
	UserID int `json:"user_id" db:"user_id"`
}
