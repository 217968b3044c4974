package pdfform

import (
	"errors"
	"testing"

	"github.com/Lllllllleong/warrantydocumentflow/internal/pdfform/pdftest"
	"github.com/Lllllllleong/warrantydocumentflow/internal/warranty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplate(t *testing.T) {
	raw := pdftest.FormPDF(t, warranty.TemplateFields...)
	tmpl, err := LoadTemplate(raw)
	require.NoError(t, err)

	assert.Equal(t, 1, tmpl.Pages())
	assert.Len(t, tmpl.Digest(), 64)

	again, err := LoadTemplate(raw)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Digest(), again.Digest())
}

func TestLoadTemplateMissingField(t *testing.T) {
	raw := pdftest.FormPDF(t, warranty.FieldCustomerName, warranty.FieldBrand)

	tmpl, err := LoadTemplate(raw)
	assert.Nil(t, tmpl)
	var tfe *warranty.TemplateFieldError
	require.True(t, errors.As(err, &tfe))
	assert.Equal(t, []string{warranty.FieldWarrantyPeriod}, tfe.Missing)
}

func TestLoadTemplateNotAForm(t *testing.T) {
	_, err := LoadTemplate([]byte("not a pdf"))
	var tfe *warranty.TemplateFieldError
	assert.True(t, errors.As(err, &tfe))
}

func TestFillBindsFields(t *testing.T) {
	raw := pdftest.FormPDF(t, warranty.TemplateFields...)
	tmpl, err := LoadTemplate(raw)
	require.NoError(t, err)

	cert, err := tmpl.Fill(warranty.ResolvedFields{CustomerName: "Jane Doe", Brand: "Widget X", WarrantyMonths: 12})
	require.NoError(t, err)
	assert.Equal(t, 1, cert.Pages)

	values, err := ReadFields(cert.Content)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", values[warranty.FieldCustomerName])
	assert.Equal(t, "Widget X", values[warranty.FieldBrand])
	assert.Equal(t, "12", values[warranty.FieldWarrantyPeriod])

	// The template itself stays blank.
	blank, err := ReadFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "", blank[warranty.FieldCustomerName])
}

func TestFillProducesIndependentCopies(t *testing.T) {
	tmpl, err := LoadTemplate(pdftest.FormPDF(t, warranty.TemplateFields...))
	require.NoError(t, err)

	first, err := tmpl.Fill(warranty.ResolvedFields{CustomerName: "Jane Doe", Brand: "A", WarrantyMonths: 6})
	require.NoError(t, err)
	second, err := tmpl.Fill(warranty.ResolvedFields{CustomerName: "Jane Doe", Brand: "B", WarrantyMonths: 1})
	require.NoError(t, err)

	v1, err := ReadFields(first.Content)
	require.NoError(t, err)
	v2, err := ReadFields(second.Content)
	require.NoError(t, err)
	assert.Equal(t, "A", v1[warranty.FieldBrand])
	assert.Equal(t, "6", v1[warranty.FieldWarrantyPeriod])
	assert.Equal(t, "B", v2[warranty.FieldBrand])
	assert.Equal(t, "1", v2[warranty.FieldWarrantyPeriod])
}
