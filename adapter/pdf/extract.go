package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/type1/names"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyf"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/dict"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/reader"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/reqsift/reqsift"
)

// defaultSpaceWidth is the glyph-space width assumed for fonts which do not
// declare one. Gaps wider than a third of it become a word boundary.
const defaultSpaceWidth = 280

func (a *Adapter) Load(ctx context.Context, location string) (*reqsift.Document, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}
	defer f.Close()

	texts, err := a.extractText(f)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", location, err)
	}

	dims, err := a.pageDims(location)
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions of %s: %w", location, err)
	}
	if len(dims) != len(texts) {
		return nil, fmt.Errorf("page count mismatch: %d text pages, %d media boxes", len(texts), len(dims))
	}

	doc := &reqsift.Document{
		Location: location,
		Pages:    make([]reqsift.Page, 0, len(texts)),
	}
	for i, text := range texts {
		doc.Pages = append(doc.Pages, reqsift.Page{
			Index:  i,
			Text:   text,
			Width:  dims[i].Width,
			Height: dims[i].Height,
		})
	}

	a.logger.Sugar().With(
		"location", location,
		"pages", len(doc.Pages),
	).Info("document loaded")

	return doc, nil
}

type pageDim struct {
	Width  float64
	Height float64
}

func (a *Adapter) pageDims(location string) ([]pageDim, error) {
	pdfCtx, err := api.ReadContextFile(location)
	if err != nil {
		return nil, err
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, err
	}

	raw, err := pdfCtx.PageDims()
	if err != nil {
		return nil, err
	}

	dims := make([]pageDim, 0, len(raw))
	for _, d := range raw {
		dims = append(dims, pageDim{Width: d.Width, Height: d.Height})
	}
	return dims, nil
}

// extractText walks every page's content stream and accumulates the shown
// text, inserting spaces on wide glyph gaps and newlines on line moves.
func (a *Adapter) extractText(data io.ReadSeeker) ([]string, error) {
	r, err := pdf.NewReader(data, nil)
	if err != nil {
		return nil, err
	}

	numPages, err := pagetree.NumPages(r)
	if err != nil {
		return nil, err
	}

	var (
		w          *bytes.Buffer
		pages      = make([]string, 0, numPages)
		extraText  = make(map[font.Embedded]map[cid.CID]string)
		spaceWidth = make(map[font.Embedded]float64)
	)

	contents := reader.New(r, nil)
	contents.TextEvent = func(op reader.TextEvent, arg float64) {
		switch op {
		case reader.TextEventSpace:
			w0, ok := spaceWidth[contents.TextFont]
			if !ok {
				w0 = getSpaceWidth(contents.TextFont)
				spaceWidth[contents.TextFont] = w0
			}
			if arg > 0.3*w0 {
				fmt.Fprint(w, " ")
			}
		case reader.TextEventNL, reader.TextEventMove:
			fmt.Fprintln(w)
		}
	}
	contents.Character = func(c cid.CID, text string) error {
		if text == "" {
			// No ToUnicode entry; fall back to glyph names from the
			// embedded font program.
			m, ok := extraText[contents.TextFont]
			if !ok {
				m = glyphNameMapping(r, contents.TextFont)
				extraText[contents.TextFont] = m
			}
			text = m[c]
		}
		fmt.Fprint(w, text)
		return nil
	}

	for pageNo := 0; pageNo < numPages; pageNo++ {
		_, pageDict, err := pagetree.GetPage(r, pageNo)
		if err != nil {
			return nil, err
		}

		w = bytes.NewBuffer(nil)
		if err := contents.ParsePage(pageDict, matrix.Identity); err != nil {
			return nil, fmt.Errorf("parsing page %d: %w", pageNo, err)
		}

		pages = append(pages, w.String())
	}

	return pages, nil
}

func getSpaceWidth(F font.Embedded) float64 {
	Fe, ok := F.(font.FromFile)
	if !ok {
		return defaultSpaceWidth
	}

	d := Fe.GetDict()
	if d == nil {
		return defaultSpaceWidth
	}

	for _, info := range d.Characters() {
		if info.Text == " " && info.Width > 0 {
			return info.Width
		}
	}

	return defaultSpaceWidth
}

// glyphNameMapping recovers cid-to-text mappings from glyph names of an
// embedded TrueType font when the PDF carries no ToUnicode table.
func glyphNameMapping(r pdf.Getter, F font.Embedded) map[cid.CID]string {
	Fe, ok := F.(font.FromFile)
	if !ok {
		return nil
	}

	d := Fe.GetDict()
	fontInfo, ok := d.FontInfo().(*dict.FontInfoGlyfEmbedded)
	if !ok {
		return nil
	}

	body, err := pdf.GetStreamReader(r, fontInfo.Ref)
	if err != nil {
		return nil
	}
	info, err := sfnt.Read(body)
	if err != nil {
		return nil
	}
	outlines, ok := info.Outlines.(*glyf.Outlines)
	if !ok || outlines.Names == nil || fontInfo.CIDToGID == nil {
		return nil
	}

	m := make(map[cid.CID]string)
	for cidVal, gid := range fontInfo.CIDToGID {
		if int(gid) >= len(outlines.Names) {
			continue
		}
		name := outlines.Names[gid]
		if name == "" {
			continue
		}
		m[cid.CID(cidVal)] = names.ToUnicode(name, fontInfo.PostScriptName)
	}
	return m
}
