package article

import (
	"fmt"
	"time"
)

// Raw is a provider record reduced to canonical fields. It is ephemeral:
// records are normalized as soon as a feed batch is decoded and discarded
// once the surviving candidates are persisted.
type Raw struct {
	Title          string
	URL            string
	Snippet        string
	PublishedAtRaw string
	Source         string
}

// fieldAliases maps each canonical field to the provider field names that may
// carry it, in precedence order. The feed emits heterogeneous shapes
// depending on query mode, so normalization coalesces them here instead of
// scattering fallbacks through the pipeline.
var fieldAliases = map[string][]string{
	"title":   {"title", "titleplain"},
	"url":     {"url", "urlapi"},
	"snippet": {"snippet", "description"},
	"date":    {"seendate", "publishdate", "pubDate"},
	"source":  {"domain", "source"},
}

// Normalize resolves provider field aliases into a Raw record. Unknown or
// missing fields resolve to empty strings; the source falls back to "gdelt".
func Normalize(record map[string]any) Raw {
	raw := Raw{
		Title:          firstAlias(record, fieldAliases["title"]),
		URL:            firstAlias(record, fieldAliases["url"]),
		Snippet:        firstAlias(record, fieldAliases["snippet"]),
		PublishedAtRaw: firstAlias(record, fieldAliases["date"]),
		Source:         firstAlias(record, fieldAliases["source"]),
	}
	if raw.Source == "" {
		raw.Source = "gdelt"
	}
	return raw
}

func firstAlias(record map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := record[alias]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// publishedAtLayouts are the date formats observed in feed responses, tried
// in order. The compact "20060102T150405Z" form is what the artlist mode
// actually emits.
var publishedAtLayouts = []string{
	"20060102T150405Z",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParsePublishedAt parses a provider date string into a UTC time. It returns
// nil for empty or unparseable input; a missing date is not an error.
func ParsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// PublishedAt parses the record's raw date field.
func (r Raw) PublishedAt() *time.Time {
	return ParsePublishedAt(r.PublishedAtRaw)
}

// ToArticle converts the raw record into an unpersisted canonical Article.
func (r Raw) ToArticle() Article {
	return New(r.URL, r.Title, r.Snippet, r.Source, r.PublishedAt())
}
