// Package mains guesses the local electrical mains frequency from the
// system timezone. Hum picked up by a poorly isolated recording chain
// sits at the mains fundamental and its harmonics, so the notching
// stage needs to know which grid the narration was captured on.
package mains

import (
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// DefaultHz is used whenever detection fails. 50Hz grids cover most of
// the world's population.
const DefaultHz = 50

// Frequency returns the local mains frequency in Hz (50 or 60),
// falling back to DefaultHz when the system timezone cannot be
// resolved.
func Frequency() int {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return DefaultHz
	}
	return FrequencyForTimezone(timezone)
}

// FrequencyForTimezone returns the mains frequency for an IANA
// timezone name.
func FrequencyForTimezone(timezone string) int {
	// UTC, GMT and the Etc/ zones carry no country association.
	if timezone == "" || timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return DefaultHz
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return DefaultHz
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return DefaultHz
	}

	if sixtyHzCountries[country] {
		return 60
	}
	// Japan splits 50/60Hz by region; the 50Hz east holds Tokyo and
	// most of the population, so it rides the default.
	return DefaultHz
}

// sixtyHzCountries lists the countries on 60Hz grids; everywhere else
// is treated as 50Hz. Source:
// https://en.wikipedia.org/wiki/Mains_electricity_by_country
var sixtyHzCountries = map[string]bool{
	// The Americas north of Colombia run 60Hz almost without exception.
	"United States": true,
	"Canada":        true,
	"Mexico":        true,
	"Belize":        true,
	"Costa Rica":    true,
	"El Salvador":   true,
	"Guatemala":     true,
	"Honduras":      true,
	"Nicaragua":     true,
	"Panama":        true,

	// Caribbean (mixed region; these are the 60Hz grids)
	"Antigua and Barbuda": true,
	"Aruba":               true,
	"Bahamas":             true,
	"Barbados":            true,
	"Bermuda":             true,
	"Cayman Islands":      true,
	"Cuba":                true,
	"Dominican Republic":  true,
	"Haiti":               true,
	"Jamaica":             true,
	"Puerto Rico":         true,
	"Trinidad and Tobago": true,
	"U.S. Virgin Islands": true,

	// South America mostly runs 50Hz; these are the exceptions.
	"Brazil":    true,
	"Colombia":  true,
	"Ecuador":   true,
	"Guyana":    true,
	"Peru":      true,
	"Suriname":  true,
	"Venezuela": true,

	// Asia and Africa
	"South Korea":  true,
	"Taiwan":       true,
	"Philippines":  true,
	"Saudi Arabia": true,
	"Liberia":      true,

	// US-influenced Pacific grids
	"Guam":                     true,
	"American Samoa":           true,
	"Marshall Islands":         true,
	"Micronesia":               true,
	"Northern Mariana Islands": true,
	"Palau":                    true,
}
