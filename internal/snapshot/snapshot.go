// Package snapshot encodes a whole production collection as a versioned,
// plain-data JSON document, decoupled from the in-memory entity.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmunix/filmlib/internal/production"
)

// Version is the record layout written by Encode.
const Version = 1

var (
	// ErrUnsupportedVersion indicates a document written by a newer layout.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrMalformed indicates a document that is not valid snapshot JSON.
	ErrMalformed = errors.New("malformed snapshot")

	// ErrDuplicateID indicates a record whose id was already decoded.
	ErrDuplicateID = errors.New("duplicate id")
)

// Document is the persisted form of a collection.
type Document struct {
	Version     int       `json:"version"`
	SavedAt     time.Time `json:"saved_at"`
	Productions []Record  `json:"productions"`
}

// Record is the persisted form of one production.
type Record struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Title       string      `json:"title"`
	Genre       string      `json:"genre"`
	ReleaseDate string      `json:"release_date"`
	Watched     bool        `json:"watched"`
	Comment     *string     `json:"comment,omitempty"`
	Rate        int         `json:"rate,omitempty"`
	ImageURI    string      `json:"image_uri,omitempty"`
	ImageData   []byte      `json:"image_data,omitempty"`
	Minutes     int         `json:"minutes,omitempty"`
	Seasons     map[int]int `json:"seasons,omitempty"`
}

// Skip describes a record dropped while decoding.
type Skip struct {
	Index int
	ID    string
	Err   error
}

// Result is a decoded document.
type Result struct {
	Version     int
	SavedAt     time.Time
	Productions []*production.Production
	Skipped     []Skip
}

// FromProduction flattens p into a Record.
func FromProduction(p *production.Production) Record {
	r := Record{
		ID:          p.ID(),
		Kind:        string(p.Kind().Name()),
		Title:       p.Title(),
		Genre:       p.Genre().String(),
		ReleaseDate: p.ReleaseDate().Format(time.DateOnly),
		Watched:     p.Watched(),
		Rate:        p.Rate(),
	}
	if c, ok := p.Comment(); ok {
		r.Comment = &c
	}
	img := p.Image()
	r.ImageURI = img.URI
	r.ImageData = img.Data
	switch k := p.Kind().(type) {
	case production.Movie:
		r.Minutes = k.Minutes
	case production.Series:
		r.Seasons = k.Seasons()
	}
	return r
}

// Production rebuilds and validates the entity described by r.
func (r Record) Production() (*production.Production, error) {
	genre, err := production.ParseGenre(r.Genre)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(time.DateOnly, r.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("release_date %q: %w", r.ReleaseDate, err)
	}
	name, err := production.ParseKindName(r.Kind)
	if err != nil {
		return nil, err
	}
	var kind production.Kind
	switch name {
	case production.KindMovie:
		kind = production.Movie{Minutes: r.Minutes}
	case production.KindSeries:
		kind = production.NewSeries(r.Seasons)
	}

	opts := []production.Option{
		production.WithID(r.ID),
		production.WithTitle(r.Title),
		production.WithReleaseDate(date),
		production.WithWatched(r.Watched),
		production.WithRate(r.Rate),
		production.WithKind(kind),
		production.WithImage(production.Image{URI: r.ImageURI, Data: r.ImageData}),
	}
	// GenreAll is the add-flow default and cannot be assigned explicitly.
	if genre != production.GenreAll {
		opts = append(opts, production.WithGenre(genre))
	}
	if r.Comment != nil {
		opts = append(opts, production.WithComment(*r.Comment))
	}
	return production.New(opts...)
}

// Encode writes list as a snapshot document.
func Encode(w io.Writer, list []*production.Production, savedAt time.Time) error {
	doc := Document{
		Version:     Version,
		SavedAt:     savedAt.UTC(),
		Productions: make([]Record, 0, len(list)),
	}
	for _, p := range list {
		doc.Productions = append(doc.Productions, FromProduction(p))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot document. A document without a version is
// read as version 1. Records that fail validation are left out of
// Result.Productions and listed in Result.Skipped; a newer version fails
// the whole document.
func Decode(r io.Reader) (*Result, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("%w: %d (supported: %d)", ErrUnsupportedVersion, doc.Version, Version)
	}
	if doc.Version < 0 {
		return nil, fmt.Errorf("%w: negative version %d", ErrMalformed, doc.Version)
	}

	res := &Result{
		Version:     doc.Version,
		SavedAt:     doc.SavedAt,
		Productions: make([]*production.Production, 0, len(doc.Productions)),
	}
	seen := make(map[string]bool, len(doc.Productions))
	for i, rec := range doc.Productions {
		if seen[rec.ID] {
			res.Skipped = append(res.Skipped, Skip{Index: i, ID: rec.ID, Err: ErrDuplicateID})
			continue
		}
		p, err := rec.Production()
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Index: i, ID: rec.ID, Err: err})
			continue
		}
		seen[rec.ID] = true
		res.Productions = append(res.Productions, p)
	}
	return res, nil
}
