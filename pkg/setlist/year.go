package setlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AllYearsKey is the selector text for merging every year.
const AllYearsKey = "all"

// Year identifies one per-year file. Index documents may list years as numbers
// or numeric strings; both decode into the same Year.
type Year string

// UnmarshalJSON accepts 2025 and "2025".
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a number or string: %w", err)
	}
	*y = Year(n.String())
	return nil
}

// Int returns the numeric value of the year, if it has one.
func (y Year) Int() (int, bool) {
	n, err := strconv.Atoi(string(y))
	return n, err == nil
}

// Label is the header text for a year: "2025年".
func (y Year) Label() string {
	return string(y) + "年"
}

// YearIndex is the index.json document.
type YearIndex struct {
	Years []Year `json:"years" msgpack:"years"`
}

// SortYearsDesc returns years newest first. Numeric years compare numerically
// and sort before any non-numeric ones.
func SortYearsDesc(years []Year) []Year {
	out := make([]Year, len(years))
	copy(out, years)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].Int()
		b, bok := out[j].Int()
		switch {
		case aok && bok:
			return a > b
		case aok != bok:
			return aok
		default:
			return out[i] > out[j]
		}
	})
	return out
}

// Latest returns the newest year of the index.
func (idx YearIndex) Latest() (Year, bool) {
	if len(idx.Years) == 0 {
		return "", false
	}
	return SortYearsDesc(idx.Years)[0], true
}

// Contains reports whether year is listed.
func (idx YearIndex) Contains(year Year) bool {
	for _, y := range idx.Years {
		if y == year {
			return true
		}
	}
	return false
}

// YearSelector is either one specific year or every year.
type YearSelector struct {
	all  bool
	year Year
}

// AllYears selects every year in the index.
func AllYears() YearSelector {
	return YearSelector{all: true}
}

// ForYear selects a single year.
func ForYear(year Year) YearSelector {
	return YearSelector{year: year}
}

// ParseYearSelector maps "all" to AllYears and anything else to ForYear.
func ParseYearSelector(s string) YearSelector {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllYearsKey) {
		return AllYears()
	}
	return ForYear(Year(s))
}

// IsAll reports whether every year is selected.
func (s YearSelector) IsAll() bool {
	return s.all
}

// Year returns the selected year; it is empty for AllYears.
func (s YearSelector) Year() Year {
	return s.year
}

// IsZero reports whether nothing has been selected yet.
func (s YearSelector) IsZero() bool {
	return !s.all && s.year == ""
}

func (s YearSelector) String() string {
	if s.all {
		return AllYearsKey
	}
	return string(s.year)
}

// Label is the result header for the selection: "全期間" or "2025年".
func (s YearSelector) Label() string {
	if s.all {
		return "全期間"
	}
	return s.year.Label()
}
