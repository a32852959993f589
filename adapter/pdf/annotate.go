package pdf

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/reqsift/reqsift"
)

var (
	highlightColor = color.SimpleColor{R: 1, G: 0.92, B: 0.23}
	noteColor      = color.SimpleColor{R: 1, G: 0.6, B: 0}
)

// Highlight records a highlight on the document's annotation layer. Nothing
// is written to disk until Save.
func (a *Adapter) Highlight(ctx context.Context, doc *reqsift.Document, pageIndex int, rect reqsift.Rect) error {
	if pageIndex < 0 || pageIndex >= len(doc.Pages) {
		return fmt.Errorf("page index %d out of range", pageIndex)
	}

	doc.Annotations = append(doc.Annotations, reqsift.Annotation{
		Page: pageIndex,
		Kind: reqsift.AnnotationHighlight,
		Rect: rect,
	})
	return nil
}

// Note records a marker note carrying the full requirement text.
func (a *Adapter) Note(ctx context.Context, doc *reqsift.Document, pageIndex int, at reqsift.Point, text string) error {
	if pageIndex < 0 || pageIndex >= len(doc.Pages) {
		return fmt.Errorf("page index %d out of range", pageIndex)
	}

	doc.Annotations = append(doc.Annotations, reqsift.Annotation{
		Page: pageIndex,
		Kind: reqsift.AnnotationNote,
		At:   at,
		Text: text,
	})
	return nil
}

// Save writes a copy of the source document with the accumulated annotation
// layer applied to the given location.
func (a *Adapter) Save(ctx context.Context, doc *reqsift.Document, location string) error {
	renderers := map[int][]model.AnnotationRenderer{}
	for _, ann := range doc.Annotations {
		pageNo := ann.Page + 1
		renderers[pageNo] = append(renderers[pageNo], renderAnnotation(ann))
	}

	if len(renderers) == 0 {
		if err := copyFile(doc.Location, location); err != nil {
			return fmt.Errorf("copying %s to %s: %w", doc.Location, location, err)
		}
		a.logger.Sugar().With("location", location).Info("document saved without annotations")
		return nil
	}

	if err := api.AddAnnotationsMapFile(doc.Location, location, renderers, a.conf, false); err != nil {
		return fmt.Errorf("writing annotations to %s: %w", location, err)
	}

	a.logger.Sugar().With(
		"location", location,
		"annotations", len(doc.Annotations),
	).Info("annotated document saved")

	return nil
}

func renderAnnotation(ann reqsift.Annotation) model.AnnotationRenderer {
	switch ann.Kind {
	case reqsift.AnnotationHighlight:
		rect := types.NewRectangle(ann.Rect.X, ann.Rect.Y, ann.Rect.X+ann.Rect.W, ann.Rect.Y+ann.Rect.H)
		return model.NewHighlightAnnotation(
			*rect,
			0,  // apObjNr
			"", // contents
			"", // id
			"", // modDate
			model.AnnotationFlags(0),
			&highlightColor,
			0,   // borderRadX
			0,   // borderRadY
			0,   // borderWidth
			"",  // title
			nil, // popupIndRef
			nil, // ca
			"",  // rc
			"",  // subject
			types.QuadPoints{*types.NewQuadLiteralForRect(rect)},
		)
	default:
		rect := types.NewRectangle(ann.At.X, ann.At.Y, ann.At.X+20, ann.At.Y+20)
		return model.NewTextAnnotation(
			*rect,
			0,        // apObjNr
			ann.Text, // contents
			"",       // id
			"",       // modDate
			model.AnnotationFlags(0),
			&noteColor,
			"",    // title
			nil,   // popupIndRef
			nil,   // ca
			"",    // rc
			"",    // subject
			0,     // borderRadX
			0,     // borderRadY
			0,     // borderWidth
			false, // displayOpen
			"Comment",
		)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
