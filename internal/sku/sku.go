// Package sku builds variant SKUs from the supplier code, the component
// product number and the variant color name.
package sku

import "strings"

// Generate builds a SKU of the form SUPPLIER-PRODUCTNUMBER-COLOR. Each part
// is uppercased and stripped of everything but letters and digits before
// joining, so "Forest green" on product "CMP-0042" from supplier "ACME"
// yields "ACME-CMP0042-FORESTGREEN".
func Generate(supplierCode, productNumber, colorName string) string {
	parts := []string{
		normalize(supplierCode),
		normalize(productNumber),
		normalize(colorName),
	}

	// Drop empty segments so a missing color does not leave a trailing dash.
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "-")
}

// normalize uppercases and keeps only ASCII letters and digits.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
