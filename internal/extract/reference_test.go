// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func TestParseReferenceJournalEntry(t *testing.T) {
	f := ParseReference("Smith J, Doe A. A study of X. J Clin Med. 2020;12(3):100-5.")

	if len(f.Authors) != 2 {
		t.Fatalf("got %d authors, want 2", len(f.Authors))
	}
	if f.Authors[0].Surname != "Smith" || f.Authors[0].Given != "J" {
		t.Errorf("first author = %+v", f.Authors[0])
	}
	if f.Title != "A study of X" {
		t.Errorf("title = %q", f.Title)
	}
	if f.Journal != "J Clin Med" {
		t.Errorf("journal = %q", f.Journal)
	}
	if f.Year != "2020" {
		t.Errorf("year = %q", f.Year)
	}
	if f.Volume != "12" || f.Issue != "3" {
		t.Errorf("vol/issue = %q/%q", f.Volume, f.Issue)
	}
	if f.FPage != "100" || f.LPage != "105" {
		t.Errorf("pages = %q-%q", f.FPage, f.LPage)
	}
	if f.PubType != "journal" {
		t.Errorf("pubType = %q", f.PubType)
	}
}

func TestParseReferenceEtAl(t *testing.T) {
	f := ParseReference("Kumar R, Singh P, Verma A, et al. Outcomes in sepsis. Indian J Med Res. 2019;150:473-8.")

	if len(f.Authors) != 3 {
		t.Fatalf("got %d authors, want 3", len(f.Authors))
	}
	if !f.HasEtAl {
		t.Error("expected HasEtAl")
	}
	if f.Volume != "150" || f.Issue != "" {
		t.Errorf("vol/issue = %q/%q", f.Volume, f.Issue)
	}
	if f.FPage != "473" || f.LPage != "478" {
		t.Errorf("pages = %q-%q, want 473-478", f.FPage, f.LPage)
	}
}

func TestParseReferenceNoAuthors(t *testing.T) {
	// A non-author head falls through to title parsing on the whole string.
	f := ParseReference("Global tuberculosis report 2021. Geneva: World Health Organization; 2021.")
	if len(f.Authors) != 0 {
		t.Errorf("got %d authors, want 0", len(f.Authors))
	}
	if f.Title == "" {
		t.Error("expected a title")
	}
	if f.Year != "2021" {
		t.Errorf("year = %q", f.Year)
	}
}

func TestParseReferenceThesis(t *testing.T) {
	f := ParseReference("Borkowski S. Dental pain management [dissertation]. Chicago: Univ of Illinois; 2018.")
	if f.PubType != "thesis" {
		t.Errorf("pubType = %q, want thesis", f.PubType)
	}
}

func TestFindDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"See https://doi.org/10.1000/xyz123.", "10.1000/xyz123"},
		{"doi: 10.5555/abc.def;", "10.5555/abc.def"},
		{"text 10.1234/j.jcm.2020.01.005 more", "10.1234/j.jcm.2020.01.005"},
		// A "10." candidate without a registrant suffix slash is rejected.
		{"version 10.2 of the protocol", ""},
		{"no identifier here", ""},
	}
	for _, tt := range tests {
		if got := FindDOI(tt.in); got != tt.want {
			t.Errorf("FindDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRepairLastPage(t *testing.T) {
	tests := []struct {
		fpage, lpage, want string
	}{
		{"473", "8", "478"},
		{"100", "5", "105"},
		{"1123", "30", "1130"},
		{"100", "105", "105"},
		{"", "5", "5"},
		{"473", "", ""},
		{"ix", "x", "x"},
	}
	for _, tt := range tests {
		if got := RepairLastPage(tt.fpage, tt.lpage); got != tt.want {
			t.Errorf("RepairLastPage(%q, %q) = %q, want %q", tt.fpage, tt.lpage, got, tt.want)
		}
	}
}

func TestParseReferenceYearPrefersDelimited(t *testing.T) {
	// The 1998 inside the title must not win over the delimited 2015.
	f := ParseReference("Rao V. The 1998 outbreak revisited. Trop Med Int Health. 2015;20(4):400-9.")
	if f.Year != "2015" {
		t.Errorf("year = %q, want 2015", f.Year)
	}
}
