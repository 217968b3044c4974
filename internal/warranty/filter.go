package warranty

// EligibleLines returns the lines that carry a product not excluded by cfg,
// in their original order.
func EligibleLines(lines []InvoiceLine, cfg Config) []InvoiceLine {
	var out []InvoiceLine
	for _, line := range lines {
		if line.ProductID == 0 || cfg.Excludes(line.ProductID) {
			continue
		}
		out = append(out, line)
	}
	return out
}
