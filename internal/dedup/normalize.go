// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

const defaultShingleSize = 3

// NormalizedRecord is the comparable form of a Record. It is owned by a
// single report run and never shared across runs.
type NormalizedRecord struct {
	ID    string
	Title string // display title, as stored

	NormTitle string
	Tokens    map[string]struct{}
	Shingles  map[string]struct{}
	DOI       string
	Year      int
	Venue     string
	Authors   map[string]struct{}

	// Keys lists the blocking buckets this record belongs to.
	Keys []BlockKey

	// Degraded names fields that were treated as empty because their
	// content was not valid UTF-8.
	Degraded []string
}

// doiPrefixPattern matches resolver and scheme prefixes in front of a DOI:
// "https://doi.org/", "http://dx.doi.org/", "doi.org/", "doi:", "urn:doi:".
var doiPrefixPattern = regexp.MustCompile(`^(?:https?://)?(?:(?:dx\.|www\.)?doi\.org/|(?:urn:)?doi:\s*)`)

// doiBodyPattern finds a DOI embedded in a publisher or handle URL:
// "https://onlinelibrary.wiley.com/doi/10.1002/abc".
var doiBodyPattern = regexp.MustCompile(`(?:^|[/:])(10\.\d{4,9}/\S+)`)

// Normalize derives the comparable form of r. It never fails: malformed
// fields degrade to empty and are listed in Degraded.
func Normalize(r types.Record, shingleSize int) NormalizedRecord {
	if shingleSize <= 0 {
		shingleSize = defaultShingleSize
	}

	n := NormalizedRecord{
		ID:   r.ID,
		Year: r.Year,
	}
	if n.Year < 0 {
		n.Year = 0
	}

	title, ok := validText(r.Title)
	if !ok {
		n.Degraded = append(n.Degraded, "title")
	}
	n.Title = title
	n.NormTitle = normalizeTitle(title)
	n.Tokens = tokenSet(n.NormTitle)
	n.Shingles = shingleSet(n.NormTitle, shingleSize)

	doi, ok := validText(r.DOI)
	if !ok {
		n.Degraded = append(n.Degraded, "doi")
	}
	n.DOI = normalizeDOI(doi)

	venue, ok := validText(r.Venue)
	if !ok {
		n.Degraded = append(n.Degraded, "venue")
	}
	n.Venue = normalizeTitle(venue)

	n.Authors = make(map[string]struct{}, len(r.Authors))
	for _, a := range r.Authors {
		name, ok := validText(a)
		if !ok {
			n.Degraded = append(n.Degraded, "authors")
			continue
		}
		if name = normalizeTitle(name); name != "" {
			n.Authors[name] = struct{}{}
		}
	}

	n.Keys = blockKeys(n)
	return n
}

// validText returns s unchanged if it is valid UTF-8, or "" and false.
func validText(s string) (string, bool) {
	if utf8.ValidString(s) {
		return s, true
	}
	return "", false
}

// normalizeTitle folds diacritics, lowercases, drops everything that is not
// a letter, digit or whitespace, and collapses whitespace runs.
func normalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range norm.NFKD.String(strings.ToLower(title)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// normalizeDOI lowercases a DOI and strips whitespace and any leading URL
// prefix. The remainder is kept verbatim.
func normalizeDOI(doi string) string {
	d := strings.ToLower(strings.TrimSpace(doi))
	d = strings.TrimSpace(doiPrefixPattern.ReplaceAllString(d, ""))
	if strings.HasPrefix(d, "10.") {
		return d
	}
	if m := doiBodyPattern.FindStringSubmatch(d); m != nil {
		return m[1]
	}
	return d
}

func tokenSet(normTitle string) map[string]struct{} {
	fields := strings.Fields(normTitle)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// shingleSet returns the overlapping rune n-grams of s, spaces included.
// A non-empty string shorter than n yields itself as the only shingle.
func shingleSet(s string, n int) map[string]struct{} {
	if s == "" {
		return map[string]struct{}{}
	}
	runes := []rune(s)
	if len(runes) < n {
		return map[string]struct{}{s: {}}
	}
	set := make(map[string]struct{}, len(runes)-n+1)
	for i := 0; i <= len(runes)-n; i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

