// Package quintype reads listings and stories from the JSON API served by
// Quintype-hosted news portals.
package quintype

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// storyID accepts identifiers encoded as JSON strings or numbers. Any other
// value decodes as empty.
type storyID string

func (id *storyID) UnmarshalJSON(data []byte) error {
	*id = ""
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*id = storyID(strings.TrimSpace(s))
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = storyID(n.String())
	}
	return nil
}

// headline accepts a headline encoded as a string or an array of strings.
// Array parts are joined with single spaces. Any other value decodes as
// empty.
type headline string

func (h *headline) UnmarshalJSON(data []byte) error {
	*h = ""
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var parts []looseString
		if err := json.Unmarshal(data, &parts); err == nil {
			words := make([]string, 0, len(parts))
			for _, p := range parts {
				if p != "" {
					words = append(words, string(p))
				}
			}
			*h = headline(strings.Join(words, " "))
		}
		return nil
	}
	var s looseString
	_ = json.Unmarshal(data, &s)
	*h = headline(s)
	return nil
}

// collection is the listing response of /api/v1/collections/{slug}.
type collection struct {
	Items []collectionItem `json:"items"`
}

type collectionItem struct {
	ID   storyID `json:"id"`
	Type string  `json:"type"`
	Item struct {
		Headline headline `json:"headline"`
	} `json:"item"`
}

// storyEnvelope is the response of /api/v1/stories/{id}. The API wraps the
// story in a "story" key; bare story objects are accepted as well.
type storyEnvelope struct {
	Story *story `json:"story"`
}

// story holds the fields read from a story payload. Every field tolerates a
// value of the wrong JSON type by staying empty, so one malformed field
// never costs the article its body.
type story struct {
	ID            storyID     `json:"id"`
	Headline      headline    `json:"headline"`
	PublishedAt   epochMillis `json:"published-at"`
	HeroImage     hero        `json:"hero-image"`
	StoryElements []element   `json:"story-elements"`
	Cards         []struct {
		StoryElements []element `json:"story-elements"`
	} `json:"cards"`
	Sections []struct {
		Slug looseString `json:"slug"`
		Name looseString `json:"name"`
	} `json:"sections"`
}

type hero struct {
	S3URL looseString
	URL   looseString
}

func (h *hero) UnmarshalJSON(data []byte) error {
	var fields struct {
		S3URL looseString `json:"hero-image-s3-url"`
		URL   looseString `json:"hero-image-url"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		*h = hero{}
		return nil
	}
	*h = hero{S3URL: fields.S3URL, URL: fields.URL}
	return nil
}

type element struct {
	Type       looseString `json:"type"`
	Content    looseString `json:"content"`
	Text       looseString `json:"text"`
	ImageS3URL looseString `json:"image-s3-url"`
	Src        looseString `json:"src"`
}

// looseString is a JSON string. Values of any other type decode as empty.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(v)
	return nil
}

// epochMillis is a publication time in Unix milliseconds. Integers,
// floats and numeric strings are accepted, as are date strings in RFC 3339
// or YYYY-MM-DD form. Anything else decodes as zero.
type epochMillis int64

func (m *epochMillis) UnmarshalJSON(data []byte) error {
	*m = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*m = parseMillis(strings.TrimSpace(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil && f > 0 {
		*m = epochMillis(f)
	}
	return nil
}

func parseMillis(s string) epochMillis {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return epochMillis(n)
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return epochMillis(t.UnixMilli())
		}
	}
	return 0
}

// elements returns the story's elements in reading order. Older payloads
// list them at the top level; newer ones group them in cards.
func (s *story) elements() []element {
	if len(s.StoryElements) > 0 {
		return s.StoryElements
	}
	var all []element
	for _, c := range s.Cards {
		all = append(all, c.StoryElements...)
	}
	return all
}

// text returns the element's text content.
func (e element) text() string {
	if e.Content != "" {
		return string(e.Content)
	}
	return string(e.Text)
}

// image returns the element's image URL, preferring the S3 URL.
func (e element) image() string {
	if e.ImageS3URL != "" {
		return string(e.ImageS3URL)
	}
	return string(e.Src)
}

// heroImage returns the hero image URL, preferring the S3 URL.
func (s *story) heroImage() string {
	if s.HeroImage.S3URL != "" {
		return string(s.HeroImage.S3URL)
	}
	return string(s.HeroImage.URL)
}

// published formats the epoch-millisecond publication time as RFC 3339.
func (s *story) published() string {
	if s.PublishedAt <= 0 {
		return ""
	}
	return time.UnixMilli(int64(s.PublishedAt)).UTC().Format(time.RFC3339)
}

// category returns the slug of the story's first section.
func (s *story) category() string {
	if len(s.Sections) == 0 {
		return ""
	}
	return string(s.Sections[0].Slug)
}

// decodeStory decodes a story payload with or without its envelope.
// Values of the wrong type in the outer structure, such as an object where
// the elements array belongs, are left empty; only payloads that are not
// JSON objects fail.
func decodeStory(payload string) (*story, error) {
	var env storyEnvelope
	if err := unmarshalLoose([]byte(payload), &env); err != nil {
		return nil, err
	}
	if env.Story != nil {
		return env.Story, nil
	}
	var s story
	if err := unmarshalLoose([]byte(payload), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// unmarshalLoose is json.Unmarshal without type mismatch errors. The decoder
// keeps going past a mismatched value and fills every field it can.
func unmarshalLoose(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

// StoryURL returns the API URL of a story.
func StoryURL(apiBase, id string) string {
	return strings.TrimRight(apiBase, "/") + "/api/v1/stories/" + id
}

// CollectionURL returns the API URL of the first page of a collection.
func CollectionURL(apiBase, slug string, limit int) string {
	return strings.TrimRight(apiBase, "/") + "/api/v1/collections/" + slug +
		"?offset=0&limit=" + strconv.Itoa(limit)
}
