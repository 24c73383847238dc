package article

import "strings"

// Topic is a named label attached to articles via keyword matching.
type Topic struct {
	id   int64
	name string
	slug string
}

// NewTopic creates a Topic, deriving the slug from the name.
func NewTopic(name string) Topic {
	return Topic{name: name, slug: Slugify(name)}
}

// ReconstructTopic rebuilds a Topic from persisted state.
func ReconstructTopic(id int64, name, slug string) Topic {
	return Topic{id: id, name: name, slug: slug}
}

// ID returns the database identity (0 when unpersisted).
func (t Topic) ID() int64 { return t.id }

// Name returns the topic name.
func (t Topic) Name() string { return t.name }

// Slug returns the URL-safe slug.
func (t Topic) Slug() string { return t.slug }

// Slugify lowercases a name and collapses runs of non-alphanumeric
// characters into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
