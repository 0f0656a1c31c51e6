package tracker

import "fmt"

// Season is one historical outcome consulted when a season is played.
// These are data, not computed: the catalog is built at compile time and is
// immutable for the lifetime of the process.
type Season struct {
	Year        uint16 `json:"year"`
	Position    uint8  `json:"position"`
	Champion    bool   `json:"champion"`
	Points      uint16 `json:"points"`
	Description string `json:"description"`
}

// SeasonCount is the number of catalog entries, 2010-2011 through 2024-2025.
const SeasonCount = 15

// Fenerbahçe's Süper Lig results from 2010-2011 to 2024-2025.
var seasons = [SeasonCount]Season{
	{2010, 1, true, 82, "Champions under Aykut Kocaman, level on points with Trabzonspor (82)"},
	{2011, 2, false, 68, "2nd place, 9 points behind champions Galatasaray (77)"},
	{2012, 2, false, 61, "2nd place, 10 points behind champions Galatasaray (71)"},
	{2013, 1, true, 74, "Champions under Ersun Yanal, 9 points ahead of Galatasaray (65)"},
	{2014, 2, false, 74, "2nd place, 3 points behind champions Galatasaray (77)"},
	{2015, 2, false, 74, "2nd place, 5 points behind champions Beşiktaş (79)"},
	{2016, 3, false, 64, "3rd place, 13 points behind champions Beşiktaş (77)"},
	{2017, 2, false, 72, "2nd place, 3 points behind champions Galatasaray (75)"},
	{2018, 6, false, 46, "6th place, 23 points behind champions Galatasaray (69)"},
	{2019, 7, false, 53, "7th place, 13 points behind champions Başakşehir (66)"},
	{2020, 3, false, 82, "3rd place, level with Galatasaray, 2 points behind champions Beşiktaş (84)"},
	{2021, 2, false, 73, "2nd place, 8 points behind champions Trabzonspor (81)"},
	{2022, 2, false, 80, "2nd place, 5 points behind champions Galatasaray (85)"},
	{2023, 2, false, 99, "2nd place despite a record 99 points, 3 behind champions Galatasaray (102)"},
	{2024, 2, false, 84, "2nd place, 11 points behind champions Galatasaray (95)"},
}

// SeasonAt returns the catalog entry for the given play index (0 is 2010-2011).
func SeasonAt(index int) (Season, error) {
	if index < 0 || index >= SeasonCount {
		return Season{}, fmt.Errorf("%w: %d", ErrSeasonOutOfRange, index)
	}
	return seasons[index], nil
}

// Label returns the season in its human form, e.g. "2013-2014".
func (s Season) Label() string {
	return fmt.Sprintf("%d-%d", s.Year, s.Year+1)
}
