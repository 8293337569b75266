package domain

import "time"

// ApplicationFile is one stored attachment bound to an application.
// Rows are never mutated after creation.
type ApplicationFile struct {
	ID            int64     `json:"id"`
	ApplicationID string    `json:"application_id"`
	FileName      string    `json:"file_name"`
	OriginalName  string    `json:"original_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	FileType      string    `json:"file_type"`
	UploadDate    time.Time `json:"upload_date"`
}
