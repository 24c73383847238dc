package article

import "time"

// Summary is the one-to-one presentation record kept alongside an article:
// a short card preview plus an AI summary slot filled in by a later
// summarization pass.
type Summary struct {
	heroImage    string
	shortPreview string
	aiSummary    string
	modelVersion string
	summarizedAt *time.Time
	confidence   *float64
}

// ShortPreviewLen is the card preview length cap.
const ShortPreviewLen = 200

// NewProvisionalSummary builds the summary written at ingestion time: the
// body doubles as the provisional summary until a summarizer replaces it.
func NewProvisionalSummary(body string) Summary {
	preview := body
	if len(preview) > ShortPreviewLen {
		preview = preview[:ShortPreviewLen]
	}
	return Summary{
		shortPreview: preview,
		aiSummary:    body,
	}
}

// NewSummary builds a completed summary produced by a generation model.
func NewSummary(shortPreview, aiSummary, modelVersion string, summarizedAt time.Time, confidence float64) Summary {
	if len(shortPreview) > ShortPreviewLen {
		shortPreview = shortPreview[:ShortPreviewLen]
	}
	return Summary{
		shortPreview: shortPreview,
		aiSummary:    aiSummary,
		modelVersion: modelVersion,
		summarizedAt: &summarizedAt,
		confidence:   &confidence,
	}
}

// HeroImage returns the hero image URL, empty when unset.
func (s Summary) HeroImage() string { return s.heroImage }

// ShortPreview returns the card preview text.
func (s Summary) ShortPreview() string { return s.shortPreview }

// AISummary returns the summary body.
func (s Summary) AISummary() string { return s.aiSummary }

// ModelVersion returns the model that produced the summary, empty for
// provisional summaries.
func (s Summary) ModelVersion() string { return s.modelVersion }

// SummarizedAt returns when the summary was generated, nil for provisional
// summaries.
func (s Summary) SummarizedAt() *time.Time { return s.summarizedAt }

// Confidence returns the model confidence, nil for provisional summaries.
func (s Summary) Confidence() *float64 { return s.confidence }
