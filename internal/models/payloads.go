package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// These structs define the JSON payloads exchanged with the host invoicing
// system and the functions in this repository.

// InvoicePayload is an invoice as exported by the host system.
type InvoicePayload struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	PartnerName string               `json:"partnerName"`
	Lines       []InvoiceLinePayload `json:"lines"`
}

// InvoiceLinePayload is one invoice line with its product data.
type InvoiceLinePayload struct {
	ProductID      int64          `json:"productId"`
	ProductName    string         `json:"productName"`
	WarrantyPeriod WarrantyPeriod `json:"warrantyPeriod,omitempty"`
}

// WarrantyPeriod holds a product warranty as sent by the host, which uses
// either a number or free text such as "12 muaj".
type WarrantyPeriod string

func (p *WarrantyPeriod) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = WarrantyPeriod(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("warrantyPeriod must be a number or string: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*p = WarrantyPeriod(strconv.FormatInt(i, 10))
		return nil
	}
	*p = WarrantyPeriod(n.String())
	return nil
}

// GenerateWarrantyRequest is the input for the warranty-generator function.
type GenerateWarrantyRequest struct {
	Invoice     InvoicePayload `json:"invoice"`
	ExecutionID string         `json:"executionId,omitempty"`
}

// Response statuses of the warranty-generator function.
const (
	StatusSuccess           = "success"
	StatusNothingToGenerate = "nothing_to_generate"
)

// GenerateWarrantyResponse is the output of the warranty-generator function.
type GenerateWarrantyResponse struct {
	Status       string   `json:"status"`
	Message      string   `json:"message,omitempty"`
	OutputGCSUri string   `json:"outputGcsUri,omitempty"`
	Filename     string   `json:"filename,omitempty"`
	PageCount    int      `json:"pageCount,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// WarrantySettingsRequest is the input for saving settings.
type WarrantySettingsRequest struct {
	ExcludeProductIDs     []int64 `json:"excludeProductIds"`
	DefaultWarrantyPeriod *int    `json:"defaultWarrantyPeriod"`
	TemplateObject        string  `json:"templateObject,omitempty"`
}

// WarrantySettingsResponse is the output of the warranty-settings function.
type WarrantySettingsResponse struct {
	Status                string  `json:"status"`
	ExcludeProductIDs     []int64 `json:"excludeProductIds"`
	DefaultWarrantyPeriod int     `json:"defaultWarrantyPeriod"`
	TemplateObject        string  `json:"templateObject,omitempty"`
}
