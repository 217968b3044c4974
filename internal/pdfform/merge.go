package pdfform

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Lllllllleong/warrantydocumentflow/internal/warranty"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var errNothingToMerge = errors.New("no certificates to merge")

// Merge concatenates the certificates' pages in order.
func Merge(certs []warranty.Certificate) ([]byte, error) {
	switch len(certs) {
	case 0:
		return nil, errNothingToMerge
	case 1:
		return append([]byte(nil), certs[0].Content...), nil
	}

	readers := make([]io.ReadSeeker, 0, len(certs))
	for _, c := range certs {
		readers = append(readers, bytes.NewReader(c.Content))
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, newConfig()); err != nil {
		return nil, fmt.Errorf("failed to merge certificates: %w", err)
	}
	return out.Bytes(), nil
}

// Merger is the warranty.Merger backed by Merge.
var Merger warranty.Merger = warranty.MergerFunc(Merge)
