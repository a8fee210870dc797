// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package recommend

import (
	"errors"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/metrics"
)

// ErrUnparseableRecommendation means the model's output contained nothing
// salvageable. This is a request-level error, distinct from the model
// legitimately returning an empty array.
var ErrUnparseableRecommendation = errors.New("unparseable recommendation response")

var (
	// ,"incomplete fragment at end of a truncated array
	incompleteTailRe = regexp.MustCompile(`,\s*"[^"]*$`)
	trailingCommaRe  = regexp.MustCompile(`,\s*$`)
	quotedStringRe   = regexp.MustCompile(`"([^"]*)"`)
	quotedLongRe     = regexp.MustCompile(`"([^"]{2,})"`)
)

// ExtractTitles turns the model's free text into a best-effort list of title
// strings. It must never panic, prefers structured parsing, and salvages
// partial output (the model regularly runs out of tokens mid-array) before
// giving up with ErrUnparseableRecommendation.
//
// Fallback chain, each stage tried only if the previous one failed:
//  1. Greedy bracket slice: first '[' to last ']'. Greedy is required so
//     prose after the array does not truncate it.
//  2. Repair: strip a trailing incomplete quoted fragment and any trailing
//     comma, re-closing the array.
//  3. Strict JSON parse of the repaired slice.
//  4. Quoted-string scan of the slice (length >= 1 after trim).
//  5. Quoted-string scan of the whole raw text (length >= 2).
//  6. ErrUnparseableRecommendation.
func ExtractTitles(raw string) ([]string, error) {
	slice, found := bracketSlice(strings.TrimSpace(raw))
	if found {
		repaired := repairTruncation(slice)

		if titles, ok := strictParse(repaired); ok {
			metrics.RecommendExtractionStage.WithLabelValues("strict").Inc()
			return titles, nil
		}
		if titles := scanQuoted(repaired, 1); len(titles) > 0 {
			metrics.RecommendExtractionStage.WithLabelValues("slice_scan").Inc()
			return titles, nil
		}
	}

	if titles := scanQuoted(raw, 2); len(titles) > 0 {
		metrics.RecommendExtractionStage.WithLabelValues("raw_scan").Inc()
		return titles, nil
	}

	metrics.RecommendExtractionStage.WithLabelValues("failed").Inc()
	return nil, ErrUnparseableRecommendation
}

// bracketSlice cuts from the first '[' to the last ']'. When no closing
// bracket follows the opening one, the open tail is returned so the repair
// and scan stages still see the partial array.
func bracketSlice(s string) (string, bool) {
	start := strings.Index(s, "[")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(s, "]")
	if end > start {
		return s[start : end+1], true
	}
	return s[start:], true
}

// repairTruncation re-closes an array the model abandoned mid-item.
func repairTruncation(s string) string {
	body := s
	closed := strings.HasSuffix(body, "]")
	if closed {
		body = body[:len(body)-1]
	}

	body = incompleteTailRe.ReplaceAllString(body, "")
	body = trailingCommaRe.ReplaceAllString(body, "")

	return body + "]"
}

func strictParse(s string) ([]string, bool) {
	var titles []string
	if err := json.Unmarshal([]byte(s), &titles); err != nil {
		return nil, false
	}
	return titles, true
}

// scanQuoted pulls every double-quoted substring of at least minLen
// characters, dropping entries that are empty after trimming.
func scanQuoted(s string, minLen int) []string {
	re := quotedStringRe
	if minLen >= 2 {
		re = quotedLongRe
	}

	matches := re.FindAllStringSubmatch(s, -1)
	titles := []string{}
	for _, m := range matches {
		title := m[1]
		if strings.TrimSpace(title) == "" {
			continue
		}
		titles = append(titles, title)
	}
	return titles
}
