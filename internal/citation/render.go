package citation

import "strings"

// closingLine ends both wiki templates; the page number is left for the reader to fill in.
const closingLine = " | side = }}"

type param struct {
	key   string
	value string
}

// Bokmal renders a {{ Kilde bok }} template for no.wikipedia.org.
func Bokmal(f Fields, urnURL string) string {
	return wikiTemplate("Kilde bok", []param{
		{"forfatter", f.Author},
		{"utgivelsesår", f.Year},
		{"tittel", f.Title},
		{"isbn", f.ISBN},
		{"utgivelsessted", f.Place},
		{"forlag", f.Publisher},
		{"url", urnURL},
	})
}

// Nynorsk renders a {{ Kjelde bok }} template for nn.wikipedia.org.
func Nynorsk(f Fields, urnURL string) string {
	return wikiTemplate("Kjelde bok", []param{
		{"forfattar", f.Author},
		{"utgjeve år", f.Year},
		{"tittel", f.Title},
		{"isbn", f.ISBN},
		{"stad", f.Place},
		{"forlag", f.Publisher},
		{"url", urnURL},
	})
}

func wikiTemplate(name string, params []param) string {
	lines := make([]string, 0, len(params)+2)
	lines = append(lines, "{{ "+name)
	for _, p := range params {
		if p.value != "" {
			lines = append(lines, " | "+p.key+" = "+p.value)
		}
	}
	lines = append(lines, closingLine)
	return strings.Join(lines, "\n")
}

// Lokalhistorie renders the prose reference style of lokalhistoriewiki.no:
//
//	Forfatter. ''Tittel''. Utg. Forlag. Sted. År. {{NBN:no-nb_...}}.
func Lokalhistorie(f Fields, urn string) string {
	var parts []string
	add := func(s string, ok bool) {
		if ok {
			parts = append(parts, s)
		}
	}

	add(f.Author+".", f.Author != "")
	add("''"+f.Title+"''.", f.Title != "")
	add("Utg. "+f.Publisher+".", f.Publisher != "")
	add(f.Place+".", f.Place != "")
	add(f.Year+".", f.Year != "")
	add("{{"+NBNToken(urn)+"}}.", urn != "")

	return strings.Join(parts, " ")
}
