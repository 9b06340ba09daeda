package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/filmlib/internal/production"
)

// parseSeason parses "season=episodes", e.g. "2=10".
func parseSeason(s string) (season, episodes int, err error) {
	left, right, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("season %q: want SEASON=EPISODES", s)
	}
	season, err = strconv.Atoi(strings.TrimSpace(left))
	if err != nil || season < 1 {
		return 0, 0, fmt.Errorf("season %q: season must be a positive number", s)
	}
	episodes, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil || episodes < 0 {
		return 0, 0, fmt.Errorf("season %q: episodes must be zero or more", s)
	}
	return season, episodes, nil
}

// parseSeasons folds repeated --season values into a Series. A later
// value for the same season wins.
func parseSeasons(values []string) (production.Series, error) {
	seasons := make(map[int]int, len(values))
	for _, v := range values {
		n, eps, err := parseSeason(v)
		if err != nil {
			return production.Series{}, err
		}
		seasons[n] = eps
	}
	return production.NewSeries(seasons), nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// buildKind picks the kind for add. Seasons imply a series.
func buildKind(kind string, minutes int, seasons []string) (production.Kind, error) {
	name := production.KindMovie
	if kind != "" {
		var err error
		if name, err = production.ParseKindName(kind); err != nil {
			return nil, err
		}
	} else if len(seasons) > 0 {
		name = production.KindSeries
	}

	switch name {
	case production.KindSeries:
		if minutes != 0 {
			return nil, fmt.Errorf("--minutes applies to movies only")
		}
		return parseSeasons(seasons)
	default:
		if len(seasons) > 0 {
			return nil, fmt.Errorf("--season applies to series only")
		}
		return production.Movie{Minutes: minutes}, nil
	}
}
