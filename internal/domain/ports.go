package domain

import "context"

// Extraction is what the text-extraction collaborator returns for a document.
type Extraction struct {
	Text       string
	PageCount  int
	WordCount  int
	Confidence float64
}

// TextExtractor is the PDF/document text-extraction collaborator port.
// Healthy probes availability explicitly; implementations must not cache
// availability state between calls.
type TextExtractor interface {
	ExtractPath(ctx context.Context, fileName, path string) (Extraction, error)
	Healthy(ctx context.Context) error
}

// Transcription is what the speech-to-text collaborator returns.
type Transcription struct {
	Text            string
	Language        string
	Confidence      float64
	DurationSeconds float64
	WordCount       int
}

// Transcriber is the speech-to-text collaborator port.
type Transcriber interface {
	Transcribe(ctx context.Context, fileName, path string) (Transcription, error)
	Healthy(ctx context.Context) error
}
