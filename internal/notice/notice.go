// Package notice renders the user-visible texts of a table (invalid move, win banner,
// empty selection label) in the player's language.
package notice

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"klondike/internal/domain"
)

// Message keys. The English text doubles as the key.
const (
	KeyInvalidMove = "Invalid move!"
	KeyWin         = "You win!"
	KeyNoSelection = "None"
)

var supported = []language.Tag{
	language.AmericanEnglish,
	language.Slovenian,
}

var (
	builder = newBuilder()
	matcher = language.NewMatcher(supported)
)

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	b.SetString(language.AmericanEnglish, KeyInvalidMove, "Invalid move!")
	b.SetString(language.AmericanEnglish, KeyWin, "You win!")
	b.SetString(language.AmericanEnglish, KeyNoSelection, "None")

	b.SetString(language.Slovenian, KeyInvalidMove, "Neveljavna poteza!")
	b.SetString(language.Slovenian, KeyWin, "Zmagali ste!")
	b.SetString(language.Slovenian, KeyNoSelection, "Nič")
	return b
}

// Printer renders notices for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter returns a printer for the best supported match of the given lang tags, tried
// in order. Unparseable or empty tags are skipped; English is the fallback.
func NewPrinter(langTags ...string) *Printer {
	var prefs []language.Tag
	for _, raw := range langTags {
		if raw == "" {
			continue
		}
		tag, err := language.Parse(raw)
		if err != nil {
			continue
		}
		prefs = append(prefs, tag)
	}
	tag := supported[0]
	if len(prefs) > 0 {
		_, idx, _ := matcher.Match(prefs...)
		tag = supported[idx]
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(builder))}
}

// Locale returns the resolved locale.
func (p *Printer) Locale() string {
	return p.tag.String()
}

// Notice renders a table notice, or "" for NoticeNone.
func (p *Printer) Notice(n domain.Notice) string {
	switch n {
	case domain.NoticeInvalidMove:
		return p.p.Sprintf(KeyInvalidMove)
	}
	return ""
}

// Win renders the win banner.
func (p *Printer) Win() string {
	return p.p.Sprintf(KeyWin)
}

// SelectionLabel renders the status-line name of the current selection.
func (p *Printer) SelectionLabel(selectedName string) string {
	if selectedName == "" {
		return p.p.Sprintf(KeyNoSelection)
	}
	return selectedName
}
