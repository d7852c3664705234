package documents

import "time"

// Document represents an uploaded evidence file owned by a user. Extraction
// happens per assessment run, so nothing derived is cached on the record.
type Document struct {
	ID              string
	UserID          string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	CreatedAt       time.Time
}
