// Package pdfform fills, reads and merges the warranty certificate form with pdfcpu.
package pdfform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// newConfig returns a relaxed pdfcpu configuration. pdfcpu's config dir is
// switched off because Cloud Functions only allow writes below /tmp.
func newConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// formGroup mirrors the subset of pdfcpu's form JSON used for filling and
// exporting text fields.
type formGroup struct {
	Forms []formFields `json:"forms"`
}

type formFields struct {
	TextFields []textField `json:"textfield,omitempty"`
}

type textField struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
	Pages  []int  `json:"pages,omitempty"`
}

// ReadFields returns the value of every text field in pdf, keyed by field name.
func ReadFields(pdf []byte) (map[string]string, error) {
	return readFields(pdf, newConfig())
}

func readFields(pdf []byte, cfg *model.Configuration) (map[string]string, error) {
	fields, err := readTextFields(pdf, cfg)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(fields))
	for _, tf := range fields {
		values[tf.Name] = tf.Value
	}
	return values, nil
}

func readTextFields(pdf []byte, cfg *model.Configuration) ([]textField, error) {
	var buf bytes.Buffer
	if err := api.ExportFormJSON(bytes.NewReader(pdf), &buf, "certificate.pdf", cfg); err != nil {
		return nil, fmt.Errorf("failed to export form fields: %w", err)
	}
	var group formGroup
	if err := json.Unmarshal(buf.Bytes(), &group); err != nil {
		return nil, fmt.Errorf("failed to decode exported form: %w", err)
	}
	var fields []textField
	for _, f := range group.Forms {
		fields = append(fields, f.TextFields...)
	}
	return fields, nil
}

// PageCount returns the number of pages in pdf.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), newConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}
