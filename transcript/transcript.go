// Package transcript exports a session's story as plain text or PDF.
package transcript

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/storyseed/types"
)

// Width is the plain-text wrap column.
const Width = 72

// Title names the story after its genre and destination.
func Title(s *types.Session) string {
	genre := cases.Title(language.English).String(s.World.Genre)
	if genre == "" {
		return "Untitled Story"
	}
	return fmt.Sprintf("%s: %s", genre, s.World.Destination)
}

// Setting is the one-line premise printed under the title.
func Setting(s *types.Session) string {
	w := s.World
	return fmt.Sprintf("A %s bound for %s, at %s in %s. Seed %s.",
		w.Role, w.Destination, w.TimeOfDay, w.Location, s.Seed)
}

// Cast lists "Name, archetype" for every character.
func Cast(s *types.Session) []string {
	out := make([]string, 0, len(s.Characters))
	for _, ch := range s.Characters {
		out = append(out, fmt.Sprintf("%s, %s", ch.Name, ch.Archetype))
	}
	return out
}

// WriteText writes the story wrapped at Width columns.
func WriteText(w io.Writer, s *types.Session) error {
	var b strings.Builder
	title := Title(s)
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&b, "%s\n\n", wordwrap.String(Setting(s), Width))
	if cast := Cast(s); len(cast) > 0 {
		fmt.Fprintf(&b, "%s\n\n", wordwrap.String("Cast: "+strings.Join(cast, "; ")+".", Width))
	}
	for _, h := range s.History {
		fmt.Fprintf(&b, "-- Turn %d --\n\n", h.Turn)
		for _, p := range strings.Split(h.Text, "\n\n") {
			fmt.Fprintf(&b, "%s\n\n", wordwrap.String(p, Width))
		}
	}
	if s.Ended {
		fmt.Fprintf(&b, "Themes: %s\n", strings.Join(s.Arc.Themes, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePDF renders the story as an A4 PDF document.
func WritePDF(w io.Writer, s *types.Session) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := Title(s)
	pdf.SetTitle(title, true)
	pdf.SetCreator("storyseed", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(title), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(0, 6, tr(Setting(s)), "", "L", false)
	if cast := Cast(s); len(cast) > 0 {
		pdf.MultiCell(0, 6, tr("Cast: "+strings.Join(cast, "; ")+"."), "", "L", false)
	}
	pdf.Ln(4)

	for _, h := range s.History {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Turn %d", h.Turn), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range strings.Split(h.Text, "\n\n") {
			pdf.MultiCell(0, 6, tr(p), "", "L", false)
			pdf.Ln(2)
		}
	}
	if s.Ended && len(s.Arc.Themes) > 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr("Themes: "+strings.Join(s.Arc.Themes, ", ")), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
