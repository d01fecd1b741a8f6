package dto

// File is a fully rendered export ready to be streamed as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
