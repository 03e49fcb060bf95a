// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/pdiddy/pdf2deck/internal/pdfsource"
)

// PDFOpener opens PDF files through pdfsource.
type PDFOpener struct {
	Options pdfsource.Options
}

// NewPDFOpener returns an opener that optionally validates files before
// reading them.
func NewPDFOpener(opts pdfsource.Options) *PDFOpener {
	return &PDFOpener{Options: opts}
}

// Open implements Opener.
func (o *PDFOpener) Open(path string) (Document, error) {
	doc, err := pdfsource.Open(path, o.Options)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
