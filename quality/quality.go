package quality

import (
	"errors"
	"fmt"
	"strings"
)

// Quality is the closed set of chord types the catalog knows about.
type Quality string

const (
	Major       Quality = "major"
	Minor       Quality = "minor"
	Diminished  Quality = "diminished"
	Augmented   Quality = "augmented"
	Sus2        Quality = "sus2"
	Sus4        Quality = "sus4"
	Dominant7   Quality = "dominant7"
	Major7      Quality = "major7"
	Minor7      Quality = "minor7"
	Major9      Quality = "major9"
	Dominant9   Quality = "dominant9"
	Minor9      Quality = "minor9"
	Add9        Quality = "add9"
	Major6      Quality = "major6"
	Minor6      Quality = "minor6"
	Diminished7 Quality = "diminished7"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

type Family int

const (
	Triad   Family = 3
	Seventh Family = 4
	Ninth   Family = 5
)

type definition struct {
	quality       Quality
	suffix        string
	intervals     []int
	difficulty    Difficulty
	description   string
	descriptionFr string
}

// catalog order, also the order catalog builds iterate in
var definitions = []definition{
	{Major, "", []int{0, 4, 7}, Easy, "Major triad", "Accord majeur"},
	{Minor, "m", []int{0, 3, 7}, Easy, "Minor triad", "Accord mineur"},
	{Diminished, "dim", []int{0, 3, 6}, Medium, "Diminished triad", "Accord diminué"},
	{Augmented, "aug", []int{0, 4, 8}, Medium, "Augmented triad", "Accord augmenté"},
	{Sus2, "sus2", []int{0, 2, 7}, Medium, "Suspended 2nd", "Seconde suspendue"},
	{Sus4, "sus4", []int{0, 5, 7}, Medium, "Suspended 4th", "Quarte suspendue"},
	{Dominant7, "7", []int{0, 4, 7, 10}, Medium, "Dominant 7th", "Septième de dominante"},
	{Major7, "maj7", []int{0, 4, 7, 11}, Medium, "Major 7th", "Septième majeure"},
	{Minor7, "m7", []int{0, 3, 7, 10}, Medium, "Minor 7th", "Septième mineure"},
	{Major9, "maj9", []int{0, 4, 7, 11, 14}, Hard, "Major 9th", "Neuvième majeure"},
	{Dominant9, "9", []int{0, 4, 7, 10, 14}, Hard, "Dominant 9th", "Neuvième de dominante"},
	{Minor9, "m9", []int{0, 3, 7, 10, 14}, Hard, "Minor 9th", "Neuvième mineure"},
	{Add9, "add9", []int{0, 4, 7, 14}, Medium, "Add 9th", "Neuvième ajoutée"},
	{Major6, "6", []int{0, 4, 7, 9}, Easy, "Major 6th", "Sixte majeure"},
	{Minor6, "m6", []int{0, 3, 7, 9}, Medium, "Minor 6th", "Sixte mineure"},
	{Diminished7, "dim7", []int{0, 3, 6, 9}, Hard, "Diminished 7th", "Septième diminuée"},
}

var (
	byQuality = make(map[Quality]definition, len(definitions))
	bySuffix  = make(map[string]Quality)
)

// accepted spellings on top of each quality's own suffix
var suffixAliases = map[string]Quality{
	"maj":  Major,
	"M":    Major,
	"min":  Minor,
	"-":    Minor,
	"°":    Diminished,
	"+":    Augmented,
	"sus":  Sus4,
	"dom7": Dominant7,
	"M7":   Major7,
	"Δ7":   Major7,
	"min7": Minor7,
	"-7":   Minor7,
	"M9":   Major9,
	"min9": Minor9,
	"min6": Minor6,
	"°7":   Diminished7,
}

func init() {
	for _, d := range definitions {
		if err := validate(d.intervals); err != nil {
			panic(fmt.Sprintf("quality %s: %v", d.quality, err))
		}
		byQuality[d.quality] = d
		bySuffix[d.suffix] = d.quality
	}
	for alias, q := range suffixAliases {
		bySuffix[alias] = q
	}
}

func validate(intervals []int) error {
	if len(intervals) == 0 {
		return errors.New("empty interval table")
	}
	if intervals[0] != 0 {
		return errors.New("first interval must be 0")
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i] <= intervals[i-1] {
			return errors.New("intervals must be strictly ascending")
		}
	}
	return nil
}

var ErrUnknownQuality = errors.New("unknown chord quality")

type UnknownQualityError struct {
	Tag string
}

func (e *UnknownQualityError) Error() string {
	return fmt.Sprintf("unknown chord quality %q", e.Tag)
}

func (e *UnknownQualityError) Unwrap() error {
	return ErrUnknownQuality
}

func lookup(q Quality) (definition, error) {
	d, ok := byQuality[q]
	if !ok {
		return definition{}, &UnknownQualityError{Tag: string(q)}
	}
	return d, nil
}

// Intervals returns a copy of the semitone offsets from the root.
func Intervals(q Quality) ([]int, error) {
	d, err := lookup(q)
	if err != nil {
		return nil, err
	}
	res := make([]int, len(d.intervals))
	copy(res, d.intervals)
	return res, nil
}

func Parse(tag string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(tag)))
	if _, err := lookup(q); err != nil {
		return "", &UnknownQualityError{Tag: tag}
	}
	return q, nil
}

// ParseSuffix maps the text after a chord's root ("m7", "sus4", "") to its
// quality. Matching is exact against the suffix table, never by substring.
func ParseSuffix(suffix string) (Quality, error) {
	if q, ok := bySuffix[suffix]; ok {
		return q, nil
	}
	// "Maj7", "MIN", "Sus4" fold to lowercase, but "M6" is major and must
	// not become "m6".
	if len(suffix) > 1 && suffix[0] == 'M' && suffix[1] >= '0' && suffix[1] <= '9' {
		return "", &UnknownQualityError{Tag: suffix}
	}
	if q, ok := bySuffix[strings.ToLower(suffix)]; ok {
		return q, nil
	}
	return "", &UnknownQualityError{Tag: suffix}
}

func All() []Quality {
	res := make([]Quality, 0, len(definitions))
	for _, d := range definitions {
		res = append(res, d.quality)
	}
	return res
}

func (q Quality) Valid() bool {
	_, ok := byQuality[q]
	return ok
}

func (q Quality) Suffix() string {
	return byQuality[q].suffix
}

func (q Quality) Difficulty() Difficulty {
	return byQuality[q].difficulty
}

func (q Quality) Description() string {
	return byQuality[q].description
}

func (q Quality) DescriptionFr() string {
	return byQuality[q].descriptionFr
}

// Family is the interval count: triad, seventh or ninth.
func (q Quality) Family() Family {
	return Family(len(byQuality[q].intervals))
}

func (q Quality) String() string {
	return string(q)
}
