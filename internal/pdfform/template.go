package pdfform

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Lllllllleong/warrantydocumentflow/internal/warranty"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Template is a validated certificate form. Its bytes are never modified;
// every Fill call writes a fresh copy.
type Template struct {
	raw    []byte
	pages  int
	digest string
	conf   *model.Configuration
}

// LoadTemplate checks that raw is a PDF form holding every field in
// warranty.TemplateFields. It returns a *warranty.TemplateFieldError when the
// form is unreadable or fields are missing.
func LoadTemplate(raw []byte) (*Template, error) {
	conf := newConfig()
	fields, err := readFields(raw, conf)
	if err != nil {
		return nil, &warranty.TemplateFieldError{Err: err}
	}
	var missing []string
	for _, name := range warranty.TemplateFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &warranty.TemplateFieldError{Missing: missing}
	}

	pages, err := api.PageCount(bytes.NewReader(raw), conf)
	if err != nil {
		return nil, &warranty.TemplateFieldError{Err: err}
	}

	sum := sha256.Sum256(raw)
	return &Template{
		raw:    append([]byte(nil), raw...),
		pages:  pages,
		digest: hex.EncodeToString(sum[:]),
		conf:   conf,
	}, nil
}

// Digest is the hex SHA-256 of the template bytes.
func (t *Template) Digest() string { return t.digest }

// Pages is the page count of one certificate.
func (t *Template) Pages() int { return t.pages }

// Fill binds fields to the template and locks the filled fields.
func (t *Template) Fill(fields warranty.ResolvedFields) (warranty.Certificate, error) {
	payload, err := json.Marshal(formGroup{Forms: []formFields{{TextFields: []textField{
		{Name: warranty.FieldCustomerName, Value: fields.CustomerName, Locked: true},
		{Name: warranty.FieldBrand, Value: fields.Brand, Locked: true},
		{Name: warranty.FieldWarrantyPeriod, Value: strconv.Itoa(fields.WarrantyMonths), Locked: true},
	}}}})
	if err != nil {
		return warranty.Certificate{}, fmt.Errorf("failed to encode form data: %w", err)
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(t.raw), bytes.NewReader(payload), &out, t.conf); err != nil {
		return warranty.Certificate{}, fmt.Errorf("failed to fill form: %w", err)
	}
	return warranty.Certificate{
		Fields:  fields,
		Content: out.Bytes(),
		Pages:   t.pages,
	}, nil
}
