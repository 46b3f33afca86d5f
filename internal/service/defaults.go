package service

import (
	_ "embed"

	"restinvoice/internal/core"
)

var (
	//go:embed templates/default_invoice.html
	DefaultInvoiceHTML string

	//go:embed templates/default_receipt.html
	defaultReceiptHTML string
)

// DefaultVariables returns the sample values used by the built-in templates.
func DefaultVariables() core.Variables {
	return core.Variables{
		"primary_color":   {Label: "Primary Color", Type: "color", Value: "#0087C3"},
		"invoice_number":  {Label: "Invoice Number", Type: "text", Value: "10234"},
		"created_date":    {Label: "Created Date", Type: "text", Value: "January 19, 2026"},
		"due_date":        {Label: "Due Date", Type: "text", Value: "February 01, 2026"},
		"company_name":    {Label: "Company Name", Type: "text", Value: "Acme Corp Solutions"},
		"company_address": {Label: "Company Address", Type: "textarea", Value: "1234 Innovation Drive\nTech City, CA 94000"},
		"company_email":   {Label: "Company Email", Type: "text", Value: "support@acme.example.com"},
		"client_name":     {Label: "Client Name", Type: "text", Value: "John Doe"},
		"client_address":  {Label: "Client Address", Type: "textarea", Value: "555 Main Street\nApartment 4B\nNew York, NY 10012"},
	}
}

// SystemTemplates is the built-in catalogue shown to every caller.
func SystemTemplates() []core.SystemTemplate {
	entries := []struct {
		id, name, description, kind string
	}{
		{"system-modern-01", "Modern Invoice", "Clean, minimal design perfect for tech companies and startups", "invoice"},
		{"system-corporate-01", "Corporate Invoice", "Formal business style with professional layout", "invoice"},
		{"system-creative-01", "Creative Invoice", "Designer-friendly layout with vibrant accents", "invoice"},
		{"system-detailed-01", "Detailed Invoice", "Itemized breakdown with comprehensive tax calculations", "invoice"},
		{"system-receipt-simple", "Simple Receipt", "Basic receipt for quick transactions", "receipt"},
		{"system-receipt-detailed", "Detailed Receipt", "Full transaction details with customer information", "receipt"},
	}

	out := make([]core.SystemTemplate, 0, len(entries))
	for _, e := range entries {
		html := DefaultInvoiceHTML
		if e.kind == "receipt" {
			html = defaultReceiptHTML
		}
		out = append(out, core.SystemTemplate{
			ID:          e.id,
			Name:        e.name,
			Description: e.description,
			Type:        e.kind,
			IsSystem:    true,
			HTMLContent: html,
			Variables:   DefaultVariables(),
		})
	}
	return out
}
