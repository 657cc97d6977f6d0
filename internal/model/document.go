package model

// DocumentRecord represents a document stored by the eSignature backend.
// Records are owned by the backend; the gateway only holds read-only cached
// copies, replaced wholesale on refresh.
type DocumentRecord struct {
	ID        int64    `json:"id"`
	FilePath  string   `json:"file_path"`
	Signed    bool     `json:"signed"`
	CreatedAt string   `json:"created_at"`
	Metadata  Metadata `json:"metadata"`
}

// Metadata carries optional capture context recorded by the backend at upload
// time. Both fields are best-effort and may be absent.
type Metadata struct {
	IP          string    `json:"ip,omitempty"`
	Geolocation *GeoPoint `json:"geolocation,omitempty"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FileName returns the display name of a document: the last segment of its
// stored path.
func (d DocumentRecord) FileName() string {
	return FileName(d.FilePath)
}

// CreatedAtDisplay returns the formatted creation timestamp for display.
func (d DocumentRecord) CreatedAtDisplay() string {
	return FormatDate(d.CreatedAt)
}
