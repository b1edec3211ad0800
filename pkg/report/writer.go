package report

import (
	"bytes"
	"fmt"
	"strings"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
)

// pdfVersion is the PDF specification version written in the file header.
const pdfVersion = "1.4"

// pageSpec is one page queued for serialization: a fixed MediaBox and
// exactly one content stream.
type pageSpec struct {
	width   float64
	height  float64
	content string
}

// fontSpec is a shared font resource. Only standard built-in fonts are
// supported, identified by name; there is no embedding or subsetting.
type fontSpec struct {
	resource string // resource name referenced from content streams, e.g. "F1"
	baseFont string // base-14 font name, e.g. "Helvetica"
}

// docWriter assembles the PDF object graph and serializes it into a byte
// buffer. Object numbers are contiguous from 1: the Catalog is always
// object 1 and the Pages tree object 2, followed by one Page and one
// Contents object per page (interleaved), then one object per font.
//
// Everything is freshly allocated per document, so concurrent builds from
// independent requests share no state.
type docWriter struct {
	pages []pageSpec
	fonts []fontSpec
}

func newDocWriter(fonts []fontSpec) *docWriter {
	return &docWriter{fonts: fonts}
}

// addPage queues a page with the given MediaBox and content stream.
func (w *docWriter) addPage(width, height float64, content string) {
	w.pages = append(w.pages, pageSpec{width: width, height: height, content: content})
}

// pageObjectID returns the object number of page i (0-based).
func (w *docWriter) pageObjectID(i int) int {
	return 3 + 2*i
}

// contentObjectID returns the object number of page i's content stream.
func (w *docWriter) contentObjectID(i int) int {
	return 4 + 2*i
}

// fontObjectID returns the object number of font j (0-based).
func (w *docWriter) fontObjectID(j int) int {
	return 3 + 2*len(w.pages) + j
}

// build serializes the document. Bodies are assembled first, keyed by object
// number; the write pass then walks ids 1..count in order, recording each
// object's byte offset with buf.Len() immediately before its bytes are
// appended. Content stream lengths are data dependent, so offsets can never
// be precomputed.
func (w *docWriter) build() ([]byte, error) {
	count := 2 + 2*len(w.pages) + len(w.fonts)
	bodies := make([]string, count+1) // 1-based; index 0 unused

	bodies[1] = "<< /Type /Catalog\n/Pages 2 0 R\n>>"

	var kids strings.Builder
	kids.WriteString("[")
	for i := range w.pages {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", w.pageObjectID(i))
	}
	kids.WriteString("]")
	bodies[2] = fmt.Sprintf("<< /Type /Pages\n/Kids %s\n/Count %d\n>>", kids.String(), len(w.pages))

	// Font resources are shared by every page.
	var fontDict strings.Builder
	fontDict.WriteString("<<")
	for j, f := range w.fonts {
		fmt.Fprintf(&fontDict, " /%s %d 0 R", f.resource, w.fontObjectID(j))
	}
	fontDict.WriteString(" >>")

	for i, p := range w.pages {
		bodies[w.pageObjectID(i)] = fmt.Sprintf(
			"<< /Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %.2f %.2f]\n/Contents %d 0 R\n/Resources << /Font %s >>\n>>",
			p.width, p.height, w.contentObjectID(i), fontDict.String())

		// /Length must equal the exact byte length of the stream payload;
		// a mismatch silently corrupts the file for conformant readers.
		bodies[w.contentObjectID(i)] = fmt.Sprintf(
			"<< /Length %d >>\nstream\n%sendstream", len(p.content), p.content)
	}

	for j, f := range w.fonts {
		bodies[w.fontObjectID(j)] = fmt.Sprintf(
			"<< /Type /Font\n/Subtype /Type1\n/BaseFont /%s\n/Encoding /WinAnsiEncoding\n>>", f.baseFont)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", pdfVersion)
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, count+1)
	for id := 1; id <= count; id++ {
		if bodies[id] == "" {
			// A gap in the object graph is a programming defect; abort
			// rather than emit a file that truncates at this object.
			return nil, qserrors.Exportf(qserrors.ErrExportObjectMissing,
				"object %d of %d was never assigned a body", id, count)
		}
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, bodies[id])
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", count+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= count; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d\n/Root 1 0 R\n>>\n", count+1)
	buf.WriteString("startxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefPos)
	buf.WriteString("%%EOF\n")

	return buf.Bytes(), nil
}
