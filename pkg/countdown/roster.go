package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Country is one configured roster row.
type Country struct {
	Name string `yaml:"name" json:"name"`
	// Emblem is either a literal glyph or a two-letter region code.
	Emblem   string `yaml:"emblem" json:"emblem"`
	Timezone string `yaml:"timezone" json:"timezone"`
}

// Glyph returns the emblem ready for display. Two-letter codes become flags.
func (c Country) Glyph() string {
	if isRegionCode(c.Emblem) {
		return FlagEmoji(c.Emblem)
	}
	return c.Emblem
}

// DefaultCountries is the reference roster shown when no config overrides it.
// The United Kingdom row tracks UTC rather than Europe/London.
func DefaultCountries() []Country {
	return []Country{
		{Name: "Japan", Emblem: "JP", Timezone: "Asia/Tokyo"},
		{Name: "Australia", Emblem: "AU", Timezone: "Australia/Sydney"},
		{Name: "Germany", Emblem: "DE", Timezone: "Europe/Berlin"},
		{Name: "United Kingdom", Emblem: "GB", Timezone: "UTC"},
		{Name: "Brazil", Emblem: "BR", Timezone: "America/Sao_Paulo"},
		{Name: "United States", Emblem: "US", Timezone: "America/New_York"},
		{Name: "China", Emblem: "CN", Timezone: "Asia/Shanghai"},
		{Name: "India", Emblem: "IN", Timezone: "Asia/Kolkata"},
		{Name: "South Africa", Emblem: "ZA", Timezone: "Africa/Johannesburg"},
		{Name: "Mexico", Emblem: "MX", Timezone: "America/Mexico_City"},
	}
}

type member struct {
	country Country
	loc     *time.Location
}

// Roster is an immutable, resolved list of countries. Every timezone in a
// Roster is known to load, so Compute never fails on it.
type Roster struct {
	members []member
}

var ErrEmptyRoster = errors.New("roster has no countries")

// NewRoster resolves every timezone up front. An unknown zone is a
// configuration error and is reported with the offending row.
func NewRoster(countries []Country) (Roster, error) {
	if len(countries) == 0 {
		return Roster{}, ErrEmptyRoster
	}

	members := make([]member, 0, len(countries))
	for i, c := range countries {
		if strings.TrimSpace(c.Name) == "" {
			return Roster{}, fmt.Errorf("roster entry %d: name is required", i)
		}
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return Roster{}, fmt.Errorf("roster entry %d (%s): invalid timezone %q: %w", i, c.Name, c.Timezone, err)
		}
		members = append(members, member{country: c, loc: loc})
	}
	return Roster{members: members}, nil
}

// MustRoster is NewRoster for rosters known at compile time.
func MustRoster(countries []Country) Roster {
	r, err := NewRoster(countries)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the resolved reference roster.
func Default() Roster {
	return MustRoster(DefaultCountries())
}

func (r Roster) Len() int {
	return len(r.members)
}

// Countries returns a copy of the roster rows in configured order.
func (r Roster) Countries() []Country {
	out := make([]Country, len(r.members))
	for i, m := range r.members {
		out[i] = m.country
	}
	return out
}

// Location returns the resolved zone of the i-th row.
func (r Roster) Location(i int) *time.Location {
	return r.members[i].loc
}
