// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package recommend

import (
	"strings"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// DurationHint is a coarse runtime band inferred from the query text.
type DurationHint string

const (
	HintNone   DurationHint = ""
	HintShort  DurationHint = "short"  // runtime < 90
	HintMedium DurationHint = "medium" // 90 <= runtime < 120
	HintLong   DurationHint = "long"   // runtime >= 120
)

// DurationHintFromQuery scans the original free-text query for duration
// keywords, case-insensitively. Probe order is short, medium, long; the
// first band whose keywords appear wins.
func DurationHintFromQuery(query string) DurationHint {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "short") || strings.Contains(q, "<90"):
		return HintShort
	case strings.Contains(q, "medium") || strings.Contains(q, "90-120"):
		return HintMedium
	case strings.Contains(q, "long") || strings.Contains(q, "120+"):
		return HintLong
	}
	return HintNone
}

// MatchesDuration reports whether a runtime fits the band. A nil runtime
// always passes: exclusion happens only when the runtime is known and out of
// band. This is a coarse heuristic and never errors.
func MatchesDuration(runtime *int, hint DurationHint) bool {
	if hint == HintNone || runtime == nil {
		return true
	}
	switch hint {
	case HintShort:
		return *runtime < 90
	case HintMedium:
		return *runtime >= 90 && *runtime < 120
	case HintLong:
		return *runtime >= 120
	}
	return true
}

// PostFilter drops resolved movies whose known runtime falls outside the
// query's duration band. Order is preserved.
func PostFilter(movies []models.Movie, hint DurationHint) []models.Movie {
	if hint == HintNone {
		return movies
	}
	filtered := []models.Movie{}
	for _, m := range movies {
		if MatchesDuration(m.Runtime, hint) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
