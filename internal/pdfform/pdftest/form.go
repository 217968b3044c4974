// Package pdftest builds small AcroForm PDFs for tests.
package pdftest

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type textField struct {
	ID    string `json:"id"`
	Pos   [2]int `json:"pos"`
	Width int    `json:"width"`
	Font  font   `json:"font"`
	Value string `json:"value"`
}

type text struct {
	Value string `json:"value"`
	Pos   [2]int `json:"pos"`
	Font  font   `json:"font"`
}

type content struct {
	Text      []text      `json:"text,omitempty"`
	TextField []textField `json:"textfield,omitempty"`
}

type page struct {
	Content content `json:"content"`
}

type document struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]page `json:"pages"`
}

// FormPDF creates a one-page A4 PDF holding a text field for each name,
// laid out like the certificate template.
func FormPDF(tb testing.TB, fieldNames ...string) []byte {
	tb.Helper()

	helvetica := font{Name: "Helvetica", Size: 12}
	c := content{
		Text: []text{{Value: "GARANCIA", Pos: [2]int{230, 760}, Font: font{Name: "Helvetica", Size: 24}}},
	}
	for i, name := range fieldNames {
		c.TextField = append(c.TextField, textField{
			ID:    name,
			Pos:   [2]int{200, 680 - 40*i},
			Width: 300,
			Font:  helvetica,
		})
	}
	desc, err := json.Marshal(document{
		Paper:  "A4P",
		Origin: "LowerLeft",
		Pages:  map[string]page{"1": {Content: c}},
	})
	require.NoError(tb, err)

	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()

	var buf bytes.Buffer
	require.NoError(tb, api.Create(nil, bytes.NewReader(desc), &buf, conf))
	return buf.Bytes()
}
