package citation

import (
	"strings"
	"testing"

	"github.com/nbcite/nbcite/internal/nb"
)

func fullFields() Fields {
	return Fields{
		Author:    "Ola Nordmann",
		Year:      "2020",
		Title:     "En bok",
		Publisher: "Forlaget AS",
		Place:     "Oslo",
		ISBN:      "9788200000000",
	}
}

const testURNURL = "https://urn.nb.no/URN:NBN:no-nb_digibok_x"

func TestBokmal(t *testing.T) {
	expected := strings.Join([]string{
		"{{ Kilde bok",
		" | forfatter = Ola Nordmann",
		" | utgivelsesår = 2020",
		" | tittel = En bok",
		" | isbn = 9788200000000",
		" | utgivelsessted = Oslo",
		" | forlag = Forlaget AS",
		" | url = https://urn.nb.no/URN:NBN:no-nb_digibok_x",
		" | side = }}",
	}, "\n")

	result := Bokmal(fullFields(), testURNURL)
	if result != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestNynorsk(t *testing.T) {
	expected := strings.Join([]string{
		"{{ Kjelde bok",
		" | forfattar = Ola Nordmann",
		" | utgjeve år = 2020",
		" | tittel = En bok",
		" | isbn = 9788200000000",
		" | stad = Oslo",
		" | forlag = Forlaget AS",
		" | url = https://urn.nb.no/URN:NBN:no-nb_digibok_x",
		" | side = }}",
	}, "\n")

	result := Nynorsk(fullFields(), testURNURL)
	if result != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestLokalhistorie(t *testing.T) {
	expected := "Ola Nordmann. ''En bok''. Utg. Forlaget AS. Oslo. 2020. {{NBN:no-nb_digibok_x}}."

	result := Lokalhistorie(fullFields(), "URN:NBN:no-nb_digibok_x")
	if result != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, result)
	}
	if !strings.HasSuffix(result, "{{NBN:no-nb_digibok_x}}.") {
		t.Errorf("Expected brace-wrapped NBN token at the end, got %q", result)
	}
}

func TestRenderersWithNoFields(t *testing.T) {
	tests := []struct {
		name     string
		render   func() string
		expected string
	}{
		{
			name:     "bokmal",
			render:   func() string { return Bokmal(Fields{}, "") },
			expected: "{{ Kilde bok\n | side = }}",
		},
		{
			name:     "nynorsk",
			render:   func() string { return Nynorsk(Fields{}, "") },
			expected: "{{ Kjelde bok\n | side = }}",
		},
		{
			name:     "lokalhistorie",
			render:   func() string { return Lokalhistorie(Fields{}, "") },
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.render(); result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestOmittingOneFieldRemovesOnlyItsLine(t *testing.T) {
	omit := map[string]func(*Fields){
		"author":    func(f *Fields) { f.Author = "" },
		"year":      func(f *Fields) { f.Year = "" },
		"title":     func(f *Fields) { f.Title = "" },
		"publisher": func(f *Fields) { f.Publisher = "" },
		"place":     func(f *Fields) { f.Place = "" },
		"isbn":      func(f *Fields) { f.ISBN = "" },
	}
	bokmalKey := map[string]string{
		"author": "forfatter", "year": "utgivelsesår", "title": "tittel",
		"publisher": "forlag", "place": "utgivelsessted", "isbn": "isbn",
	}
	nynorskKey := map[string]string{
		"author": "forfattar", "year": "utgjeve år", "title": "tittel",
		"publisher": "forlag", "place": "stad", "isbn": "isbn",
	}
	lokalClause := map[string]string{
		"author": "Ola Nordmann.", "year": "2020.", "title": "''En bok''.",
		"publisher": "Utg. Forlaget AS.", "place": "Oslo.",
	}

	full := fullFields()
	fullBokmal := strings.Split(Bokmal(full, testURNURL), "\n")
	fullNynorsk := strings.Split(Nynorsk(full, testURNURL), "\n")
	fullLokal := Lokalhistorie(full, "URN:NBN:no-nb_digibok_x")

	for name, fn := range omit {
		t.Run(name, func(t *testing.T) {
			f := fullFields()
			fn(&f)

			assertLinesWithout(t, strings.Split(Bokmal(f, testURNURL), "\n"), fullBokmal, bokmalKey[name])
			assertLinesWithout(t, strings.Split(Nynorsk(f, testURNURL), "\n"), fullNynorsk, nynorskKey[name])

			lokal := Lokalhistorie(f, "URN:NBN:no-nb_digibok_x")
			if clause, ok := lokalClause[name]; ok {
				expected := strings.Replace(fullLokal, clause+" ", "", 1)
				if lokal != expected {
					t.Errorf("lokalhistorie: expected %q, got %q", expected, lokal)
				}
			} else if lokal != fullLokal {
				t.Errorf("lokalhistorie should not change without %s, got %q", name, lokal)
			}
			if strings.Contains(lokal, "  ") || strings.HasPrefix(lokal, " ") {
				t.Errorf("lokalhistorie has stray whitespace: %q", lokal)
			}
		})
	}
}

func assertLinesWithout(t *testing.T, got, full []string, key string) {
	t.Helper()
	if len(got) != len(full)-1 {
		t.Fatalf("Expected %d lines, got %d: %q", len(full)-1, len(got), got)
	}
	prefix := " | " + key + " = "
	j := 0
	for _, line := range full {
		if strings.HasPrefix(line, prefix) {
			continue
		}
		if got[j] != line {
			t.Errorf("Line %d: expected %q, got %q", j, line, got[j])
		}
		j++
	}
	for _, line := range got {
		if strings.TrimSpace(line) == "" {
			t.Errorf("Unexpected blank line in %q", got)
		}
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2009-04-14", "2009"},
		{"no date", "no date"},
		{"[ca. 1850]", "1850"},
		{"1852, 1853", "1852"},
		{"123", "123"},
		{"12345", "1234"},
		{"", ""},
	}

	for _, tt := range tests {
		if result := ExtractYear(tt.input); result != tt.expected {
			t.Errorf("ExtractYear(%q): expected %q, got %q", tt.input, tt.expected, result)
		}
	}
}

func TestFlattenLastLabelWins(t *testing.T) {
	m := Flatten([]nb.MetadataEntry{
		{Label: "Forfatter", Value: "Første"},
		{Label: "Tittel", Value: "En bok"},
		{Label: "Forfatter", Value: "Andre"},
	})

	if m["Forfatter"] != "Andre" {
		t.Errorf("Expected last value to win, got %q", m["Forfatter"])
	}
	if len(m) != 2 {
		t.Errorf("Expected 2 labels, got %d", len(m))
	}
}

func TestExtractFieldsTitleFallback(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		record   string
		expected string
	}{
		{
			name:     "primary title",
			metadata: map[string]string{"Tittel": "Hovedtittel", "Alternativ tittel": "Alternativ"},
			record:   "Katalogtittel",
			expected: "Hovedtittel",
		},
		{
			name:     "alternative title",
			metadata: map[string]string{"Tittel": "", "Alternativ tittel": "Alternativ"},
			record:   "Katalogtittel",
			expected: "Alternativ",
		},
		{
			name:     "record title",
			metadata: map[string]string{},
			record:   "Katalogtittel",
			expected: "Katalogtittel",
		},
		{
			name:     "no title at all",
			metadata: nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractFields(tt.metadata, tt.record).Title
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	book := nb.Book{
		Title:     "Katalogtittel",
		MediaType: "digibok",
		MediaID:   "2009041400001",
		Metadata: []nb.MetadataEntry{
			{Label: "Tittel", Value: "Norske folkeeventyr"},
			{Label: "Forfatter", Value: "Asbjørnsen, Peter Christen"},
			{Label: "Publisert", Value: "1852-01-01"},
			{Label: "Forlag", Value: "Dybwad"},
			{Label: "Utgivelsessted", Value: "Christiania"},
			{Label: "Språk", Value: "nob"},
		},
	}

	set := Format(book)

	if set.URN != "URN:NBN:no-nb_digibok_2009041400001" {
		t.Errorf("Unexpected URN %q", set.URN)
	}
	if set.URNURL != "https://urn.nb.no/URN:NBN:no-nb_digibok_2009041400001" {
		t.Errorf("Unexpected URN URL %q", set.URNURL)
	}
	if set.Metadata["Språk"] != "nob" || len(set.Metadata) != 6 {
		t.Errorf("Expected every metadata label in the lookup, got %v", set.Metadata)
	}

	expectedBokmal := strings.Join([]string{
		"{{ Kilde bok",
		" | forfatter = Asbjørnsen, Peter Christen",
		" | utgivelsesår = 1852",
		" | tittel = Norske folkeeventyr",
		" | utgivelsessted = Christiania",
		" | forlag = Dybwad",
		" | url = https://urn.nb.no/URN:NBN:no-nb_digibok_2009041400001",
		" | side = }}",
	}, "\n")
	if set.Bokmal != expectedBokmal {
		t.Errorf("Expected bokmål:\n%s\nGot:\n%s", expectedBokmal, set.Bokmal)
	}

	expectedLokal := "Asbjørnsen, Peter Christen. ''Norske folkeeventyr''. Utg. Dybwad. Christiania. 1852. {{NBN:no-nb_digibok_2009041400001}}."
	if set.Lokalhistorie != expectedLokal {
		t.Errorf("Expected lokalhistorie:\n%s\nGot:\n%s", expectedLokal, set.Lokalhistorie)
	}
}

func TestFormatEmptyRecord(t *testing.T) {
	set := Format(nb.Book{})

	for name, s := range map[string]string{
		"bokmal":        set.Bokmal,
		"nynorsk":       set.Nynorsk,
		"lokalhistorie": set.Lokalhistorie,
	} {
		if s == "" {
			t.Errorf("%s: expected output for an empty record", name)
		}
	}

	expectedBokmal := "{{ Kilde bok\n | url = https://urn.nb.no/URN:NBN:no-nb__\n | side = }}"
	if set.Bokmal != expectedBokmal {
		t.Errorf("Expected %q, got %q", expectedBokmal, set.Bokmal)
	}
	if set.Lokalhistorie != "{{NBN:no-nb__}}." {
		t.Errorf("Expected only the NBN token, got %q", set.Lokalhistorie)
	}
	if set.Metadata == nil || len(set.Metadata) != 0 {
		t.Errorf("Expected empty non-nil metadata, got %v", set.Metadata)
	}
}

func TestFormatterURNResolver(t *testing.T) {
	f := Formatter{URNResolver: "http://urn.example/"}
	set := f.Format(nb.Book{MediaType: "digibok", MediaID: "1"})

	if set.URNURL != "http://urn.example/URN:NBN:no-nb_digibok_1" {
		t.Errorf("Unexpected URN URL %q", set.URNURL)
	}
	if !strings.Contains(set.Nynorsk, " | url = http://urn.example/URN:NBN:no-nb_digibok_1\n") {
		t.Errorf("Expected custom resolver in nynorsk citation, got %q", set.Nynorsk)
	}
}

func TestNBNToken(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"URN:NBN:no-nb_digibok_2009041400001", "NBN:no-nb_digibok_2009041400001"},
		// only the leading prefix is rewritten
		{"URN:NBN:no-nb_digavis_URN:NBN:no-nb_x", "NBN:no-nb_digavis_URN:NBN:no-nb_x"},
		{"xURN:NBN:no-nb_digibok_1", "xURN:NBN:no-nb_digibok_1"},
		{"URN:NBN:se-kb_1", "URN:NBN:se-kb_1"},
	}

	for _, tt := range tests {
		if result := NBNToken(tt.input); result != tt.expected {
			t.Errorf("NBNToken(%q): expected %q, got %q", tt.input, tt.expected, result)
		}
	}
}
