// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// DOI candidate patterns, tried in order: explicit doi.org URL, "DOI:"
// prefix, bare registrant form.
var (
	doiURLRe    = regexp.MustCompile(`https?://(?:dx\.)?doi\.org/(10\.[^\s]+)`)
	doiPrefixRe = regexp.MustCompile(`(?i)\bdoi:?\s*(10\.[^\s]+)`)
	doiBareRe   = regexp.MustCompile(`\b(10\.\d{4,9}/[^\s]+)`)
)

// FindDOI returns the first DOI-like identifier in the text, or "". A
// candidate must contain a "/" to be accepted; trailing punctuation is
// stripped.
func FindDOI(text string) string {
	for _, re := range []*regexp.Regexp{doiURLRe, doiPrefixRe, doiBareRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			doi := strings.TrimRight(m[1], ".,;")
			if strings.Contains(doi, "/") {
				return doi
			}
		}
	}
	return ""
}

var (
	urlRe = regexp.MustCompile(`https?://\S+`)

	thesisRe = regexp.MustCompile(`(?i)\[dissertation\]|\[thesis\]`)

	// Delimited year ("... J Clin Med. 2020;12(3):..."), then any 4-digit
	// year in range as fallback.
	yearDelimRe = regexp.MustCompile(`[;.]\s*((?:19|20)\d{2})\s*[;:]`)
	yearAnyRe   = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

	// volume(issue):fpage-lpage, then volume:fpage-lpage without issue.
	volIssueRe = regexp.MustCompile(`(\d+)\s*\((\d+)\)\s*:\s*(\d+)\s*[-\x{2013}]\s*(\d+)`)
	volOnlyRe  = regexp.MustCompile(`(\d+)\s*:\s*(\d+)\s*[-\x{2013}]\s*(\d+)`)

	// headSplitRe separates the author block from the rest of the entry at
	// the first sentence boundary followed by a capital.
	headSplitRe = regexp.MustCompile(`^(.+?)\.\s+([A-Z].+)`)

	// authorTokenRe validates one comma-separated author token: capitalized
	// surname words (connector particles allowed) followed by 1-3 initials.
	authorTokenRe = regexp.MustCompile(`^(?:[A-Z][\pL'\x{2019}-]*|von|van|de|del|der|la|le|al|bin|binti|el)(?:\s+(?:[A-Z][\pL'\x{2019}-]*|von|van|de|del|der|la|le|al|bin|binti|el))*\s+[A-Z]{1,3}\.?$`)

	etAlRe = regexp.MustCompile(`(?i)\bet\s+al\.?$`)

	sentenceSplitRe = regexp.MustCompile(`\.\s+`)

	// journalSegRe recognizes a journal-name segment: capitalized words and
	// abbreviations, no digits ("J Clin Med", "Indian J Dermatol").
	journalSegRe = regexp.MustCompile(`^[A-Z][A-Za-z]*\.?(?:\s+[A-Za-z][A-Za-z]*\.?)*$`)
)

// ParseReference extracts structured fields from one raw reference line.
// Every field is best-effort: unparseable input yields a record with empty
// fields, never an error.
func ParseReference(raw string) types.RefFields {
	f := types.RefFields{PubType: "journal"}

	f.DOI = FindDOI(raw)

	clean := strings.TrimSpace(urlRe.ReplaceAllString(raw, ""))

	if thesisRe.MatchString(clean) {
		f.PubType = "thesis"
	}

	if m := yearDelimRe.FindStringSubmatch(clean); m != nil {
		f.Year = m[1]
	} else if m := yearAnyRe.FindStringSubmatch(clean); m != nil {
		f.Year = m[1]
	}

	if m := volIssueRe.FindStringSubmatch(clean); m != nil {
		f.Volume, f.Issue, f.FPage, f.LPage = m[1], m[2], m[3], m[4]
	} else if m := volOnlyRe.FindStringSubmatch(clean); m != nil {
		f.Volume, f.FPage, f.LPage = m[1], m[2], m[3]
	}
	f.LPage = RepairLastPage(f.FPage, f.LPage)

	rest := clean
	if m := headSplitRe.FindStringSubmatch(clean); m != nil {
		if authors, etAl, ok := parseAuthorBlock(m[1]); ok {
			f.Authors = authors
			f.HasEtAl = etAl
			rest = m[2]
		}
	}

	f.Title, f.Journal = splitTitleJournal(rest)

	return f
}

// parseAuthorBlock splits a candidate author block on commas and validates
// each token against the Surname-INITIALS shape. An "et al" token truncates
// the list. ok is false when the first token is not author-like, meaning
// the block is actually the start of the title.
func parseAuthorBlock(head string) (authors []types.Name, etAl bool, ok bool) {
	for i, part := range strings.Split(head, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if etAlRe.MatchString(part) {
			etAl = true
			break
		}
		if !authorTokenRe.MatchString(part) {
			if i == 0 {
				return nil, false, false
			}
			break
		}
		name := ParseAuthorName(part)
		if name.Surname != "" {
			authors = append(authors, name)
		}
	}
	return authors, etAl, len(authors) > 0 || etAl
}

// splitTitleJournal takes the post-author remainder and returns the title
// (first sentence) and, when the following segment looks like a journal
// abbreviation, the journal name.
func splitTitleJournal(rest string) (title, journal string) {
	segs := sentenceSplitRe.Split(rest, -1)
	if len(segs) == 0 {
		return "", ""
	}
	title = strings.TrimSpace(strings.TrimRight(segs[0], "."))
	if len(segs) > 1 {
		seg := strings.TrimSpace(strings.TrimRight(segs[1], "."))
		if seg != "" && journalSegRe.MatchString(seg) {
			journal = seg
		}
	}
	return title, journal
}

// RepairLastPage reconstructs an elided last page. Source entries often
// truncate the shared prefix ("473-8" meaning 473-478); when the parsed
// last page is numerically smaller than the first, the missing leading
// digits are copied from the first page.
func RepairLastPage(fpage, lpage string) string {
	if fpage == "" || lpage == "" {
		return lpage
	}
	f, errF := strconv.Atoi(fpage)
	l, errL := strconv.Atoi(lpage)
	if errF != nil || errL != nil {
		return lpage
	}
	if l >= f || len(lpage) >= len(fpage) {
		return lpage
	}
	return fpage[:len(fpage)-len(lpage)] + lpage
}
