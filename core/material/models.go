package material

import "time"

// Material types.
const (
	TypeLyrics    = "lyrics"
	TypeRecording = "recording"
)

// Material is an uploaded course file, stored whole as an opaque blob.
// Uploads are append-only; there is no versioning.
type Material struct {
	ID         int       `json:"id" db:"id"`
	CourseID   int       `json:"course_id" db:"course_id"`
	Type       string    `json:"material_type" db:"material_type"`
	Filename   string    `json:"filename" db:"filename"`
	Content    []byte    `json:"-" db:"content"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// Info is the listing projection, without the blob.
type Info struct {
	ID         int       `json:"id" db:"id"`
	Type       string    `json:"material_type" db:"material_type"`
	Filename   string    `json:"filename" db:"filename"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}
