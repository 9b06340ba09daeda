// Package production defines the tracked movie/series entity and its invariants.
package production

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MinRate and MaxRate bound a rating. A rate of 0 means unrated.
	MinRate = 1
	MaxRate = 10

	// DefaultTitle is the placeholder title of a freshly added production.
	DefaultTitle = "Add title"
)

// now is swapped in tests.
var now = time.Now

// Image is an opaque reference to externally owned image data: either a
// content URI or a raw byte buffer. It is stored and forwarded verbatim.
type Image struct {
	URI  string
	Data []byte
}

// ImageURI references an image by URI.
func ImageURI(uri string) Image { return Image{URI: uri} }

// ImageBytes references an image by content. The buffer is copied.
func ImageBytes(data []byte) Image { return Image{Data: bytes.Clone(data)} }

// IsZero reports whether no image is attached.
func (i Image) IsZero() bool { return i.URI == "" && len(i.Data) == 0 }

func (i Image) clone() Image {
	return Image{URI: i.URI, Data: bytes.Clone(i.Data)}
}

// Production is a single tracked movie or series.
//
// Fields are reachable only through accessors and setters so that every
// mutation re-validates the touched field. A Production is not safe for
// concurrent use.
type Production struct {
	id          string
	title       string
	genre       Genre
	releaseDate time.Time
	watched     bool
	comment     *string
	rate        int
	image       Image
	kind        Kind
}

// Option configures a Production under construction.
type Option func(*Production) error

// WithID sets a persisted identity. Only the snapshot decoder needs it.
func WithID(id string) Option {
	return func(p *Production) error {
		if err := validateID(id); err != nil {
			return err
		}
		p.id = id
		return nil
	}
}

func WithTitle(title string) Option {
	return func(p *Production) error {
		t, err := normalizeTitle(title)
		if err != nil {
			return err
		}
		p.title = t
		return nil
	}
}

func WithGenre(g Genre) Option {
	return func(p *Production) error {
		if err := validateGenre(g); err != nil {
			return err
		}
		p.genre = g
		return nil
	}
}

func WithReleaseDate(d time.Time) Option {
	return func(p *Production) error {
		p.releaseDate = Date(d)
		return nil
	}
}

func WithWatched(watched bool) Option {
	return func(p *Production) error {
		p.watched = watched
		return nil
	}
}

// WithComment sets the comment. An empty string means no comment.
func WithComment(comment string) Option {
	return func(p *Production) error {
		c, err := checkComment(comment)
		if err != nil {
			return err
		}
		p.comment = c
		return nil
	}
}

// WithRate sets the rating. 0 means unrated.
func WithRate(rate int) Option {
	return func(p *Production) error {
		if err := validateRate(rate); err != nil {
			return err
		}
		p.rate = rate
		return nil
	}
}

func WithImage(img Image) Option {
	return func(p *Production) error {
		p.image = img.clone()
		return nil
	}
}

func WithKind(k Kind) Option {
	return func(p *Production) error {
		if err := validateKind(k); err != nil {
			return err
		}
		p.kind = k.clone()
		return nil
	}
}

// New constructs a Production. Without options it yields the add-flow
// defaults: DefaultTitle, GenreAll, today's date, unwatched, unrated,
// a zero-length movie and a fresh identity.
func New(opts ...Option) (*Production, error) {
	p := &Production{
		id:          uuid.NewString(),
		title:       DefaultTitle,
		genre:       GenreAll,
		releaseDate: Date(now()),
		kind:        Movie{},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Date truncates t to its calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (p *Production) ID() string             { return p.id }
func (p *Production) Title() string          { return p.title }
func (p *Production) Genre() Genre           { return p.genre }
func (p *Production) ReleaseDate() time.Time { return p.releaseDate }
func (p *Production) Watched() bool          { return p.watched }
func (p *Production) Rate() int              { return p.rate }
func (p *Production) Rated() bool            { return p.rate != 0 }
func (p *Production) Image() Image           { return p.image.clone() }
func (p *Production) Kind() Kind             { return p.kind.clone() }

// Comment returns the comment and whether one is present.
func (p *Production) Comment() (string, bool) {
	if p.comment == nil {
		return "", false
	}
	return *p.comment, true
}

// Clone returns a structurally independent copy.
func (p *Production) Clone() *Production {
	c := *p
	if p.comment != nil {
		s := *p.comment
		c.comment = &s
	}
	c.image = p.image.clone()
	if p.kind != nil {
		c.kind = p.kind.clone()
	}
	return &c
}

// Equal reports whether p and o carry the same identity and values.
func (p *Production) Equal(o *Production) bool {
	if p.id != o.id || p.title != o.title || p.genre != o.genre ||
		!p.releaseDate.Equal(o.releaseDate) || p.watched != o.watched || p.rate != o.rate {
		return false
	}
	if (p.comment == nil) != (o.comment == nil) || (p.comment != nil && *p.comment != *o.comment) {
		return false
	}
	if p.image.URI != o.image.URI || !bytes.Equal(p.image.Data, o.image.Data) {
		return false
	}
	return kindEqual(p.kind, o.kind)
}

// Validate re-checks every invariant of the entity.
func (p *Production) Validate() error {
	if err := validateID(p.id); err != nil {
		return err
	}
	if _, err := normalizeTitle(p.title); err != nil {
		return err
	}
	if !p.genre.Valid() {
		return invalid("genre", p.genre, ErrInvalidGenre)
	}
	if err := validateRate(p.rate); err != nil {
		return err
	}
	if p.comment != nil && strings.TrimSpace(*p.comment) == "" {
		return invalid("comment", *p.comment, ErrBlankComment)
	}
	return validateKind(p.kind)
}

func (p *Production) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", p.kind.Name(), p.title)
	fmt.Fprintf(&b, "id: %s\n", p.id)
	fmt.Fprintf(&b, "genre: %s\n", p.genre)
	fmt.Fprintf(&b, "release date: %s\n", p.releaseDate.Format(time.DateOnly))
	fmt.Fprintf(&b, "watched: %t\n", p.watched)
	if c, ok := p.Comment(); ok {
		fmt.Fprintf(&b, "comment: %s\n", c)
	}
	if p.Rated() {
		fmt.Fprintf(&b, "rate: %d/%d\n", p.rate, MaxRate)
	}
	switch k := p.kind.(type) {
	case Movie:
		fmt.Fprintf(&b, "duration: %s", k)
	case Series:
		fmt.Fprintf(&b, "parts: %s", k)
	}
	return b.String()
}

func validateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return invalid("id", id, ErrInvalidID)
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", invalid("title", title, ErrEmptyTitle)
	}
	return t, nil
}

func validateGenre(g Genre) error {
	if g == GenreAll || !g.Valid() {
		return invalid("genre", g, ErrInvalidGenre)
	}
	return nil
}

// checkComment keeps comment as entered. Empty means absent.
func checkComment(comment string) (*string, error) {
	if comment == "" {
		return nil, nil
	}
	if strings.TrimSpace(comment) == "" {
		return nil, invalid("comment", comment, ErrBlankComment)
	}
	return &comment, nil
}

func validateRate(rate int) error {
	if rate == 0 {
		return nil
	}
	if rate < MinRate || rate > MaxRate {
		return invalid("rate", rate, ErrRateOutOfRange)
	}
	return nil
}
