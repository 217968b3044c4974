package warranty

import (
	"strconv"
	"strings"
)

// Resolve derives the template values for one line.
func Resolve(line InvoiceLine, customerName string, cfg Config) (ResolvedFields, error) {
	if strings.TrimSpace(line.ProductName) == "" {
		return ResolvedFields{}, &MissingProductDataError{ProductID: line.ProductID}
	}
	months := cfg.DefaultWarrantyMonths
	if line.WarrantyMonths != nil && *line.WarrantyMonths > 0 {
		months = *line.WarrantyMonths
	}
	return ResolvedFields{
		CustomerName:   customerName,
		Brand:          line.ProductName,
		WarrantyMonths: months,
	}, nil
}

var periodUnits = []string{"months", "month", "muaj"}

// ParseWarrantyPeriod reads a free-text product warranty such as "12",
// "12 muaj" or "6 months". ok is false when the text does not hold a
// positive number of months.
func ParseWarrantyPeriod(text string) (months int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, unit := range periodUnits {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
			break
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
