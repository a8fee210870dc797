// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package models

// DurationPref is a coarse runtime preference.
type DurationPref string

const (
	DurationShort  DurationPref = "short"  // < 90 min
	DurationMedium DurationPref = "medium" // 90-120 min
	DurationLong   DurationPref = "long"   // 120+ min
	DurationAny    DurationPref = "any"
)

// Region is a coarse production-region preference.
type Region string

const (
	RegionUSA    Region = "USA"
	RegionEurope Region = "Europe"
	RegionAsia   Region = "Asia"
	RegionWorld  Region = "World Cinema"
	RegionAny    Region = "any"
)

// YearBand is a coarse release-era preference.
type YearBand string

const (
	Year2020s   YearBand = "2020s"
	Year2000s   YearBand = "2000s"   // 2000-2019
	Year80s90s  YearBand = "80s_90s" // 1980-1999
	YearClassic YearBand = "classic" // before 1980
	YearAny     YearBand = "any"
)

// PopularityPref biases survey recommendations toward hits or hidden gems.
type PopularityPref string

const (
	PopularityHigh PopularityPref = "high"
	PopularityLow  PopularityPref = "low"
	PopularityAny  PopularityPref = "any"
)

// SurveyAnswers are the taste-survey responses stored per user and used for
// survey-driven recommendations.
type SurveyAnswers struct {
	// Genres is the list of preferred genre keys. "any" disables the genre
	// constraint. At least one entry is required.
	Genres []string `json:"genres" validate:"required,min=1"`

	Duration   DurationPref   `json:"duration,omitempty"`
	Region     Region         `json:"region,omitempty"`
	Year       YearBand       `json:"year,omitempty"`
	Popularity PopularityPref `json:"popularity,omitempty"`
}
