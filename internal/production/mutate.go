package production

import "time"

// Title, genre, release date and kind are frozen once a production is
// marked watched; comment and rate can only be set after that.

func (p *Production) checkUnlocked(field string) error {
	if p.watched {
		return invalid(field, nil, ErrLocked)
	}
	return nil
}

func (p *Production) checkWatched(field string) error {
	if !p.watched {
		return invalid(field, nil, ErrNotWatched)
	}
	return nil
}

func (p *Production) SetTitle(title string) error {
	if err := p.checkUnlocked("title"); err != nil {
		return err
	}
	t, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	p.title = t
	return nil
}

func (p *Production) SetGenre(g Genre) error {
	if err := p.checkUnlocked("genre"); err != nil {
		return err
	}
	if err := validateGenre(g); err != nil {
		return err
	}
	p.genre = g
	return nil
}

func (p *Production) SetReleaseDate(d time.Time) error {
	if err := p.checkUnlocked("release date"); err != nil {
		return err
	}
	p.releaseDate = Date(d)
	return nil
}

// SetKind replaces the kind-specific payload, e.g. a new movie runtime
// or a series with an extra season.
func (p *Production) SetKind(k Kind) error {
	if err := p.checkUnlocked("kind"); err != nil {
		return err
	}
	if err := validateKind(k); err != nil {
		return err
	}
	p.kind = k.clone()
	return nil
}

// SetWatched toggles the watched flag. Comment and rate survive
// un-watching.
func (p *Production) SetWatched(watched bool) {
	p.watched = watched
}

// SetComment sets the comment. An empty string removes it.
func (p *Production) SetComment(comment string) error {
	if comment == "" {
		p.comment = nil
		return nil
	}
	if err := p.checkWatched("comment"); err != nil {
		return err
	}
	c, err := checkComment(comment)
	if err != nil {
		return err
	}
	p.comment = c
	return nil
}

func (p *Production) ClearComment() {
	p.comment = nil
}

// SetRate sets the rating. 0 clears it.
func (p *Production) SetRate(rate int) error {
	if rate == 0 {
		p.rate = 0
		return nil
	}
	if err := p.checkWatched("rate"); err != nil {
		return err
	}
	if err := validateRate(rate); err != nil {
		return err
	}
	p.rate = rate
	return nil
}

func (p *Production) ClearRate() {
	p.rate = 0
}

// SetImage attaches an image reference; a zero Image detaches it.
func (p *Production) SetImage(img Image) {
	p.image = img.clone()
}
