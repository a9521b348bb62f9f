// Package invoice renders tax invoices for delivered orders as PDF
// files on disk.
package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"sparex/globals"
	"sparex/models"
	"sparex/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var invoiceDir = globals.Env("INVOICE_DIR", "./static/invoices")

// Dir returns the directory invoices are written to.
func Dir() string {
	return invoiceDir
}

// PathFor returns the on-disk path for an order's invoice.
func PathFor(order *models.Order) string {
	return filepath.Join(invoiceDir, order.InvoiceNumber+".pdf")
}

// Generate renders the invoice PDF and writes it next to the other
// invoices. The order must already carry an invoice number.
func Generate(order *models.Order, user *models.User) (string, error) {
	if order.InvoiceNumber == "" {
		return "", fmt.Errorf("order %s has no invoice number", order.OrderID)
	}
	if err := utils.EnsureDir(invoiceDir); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "SpareX Auto Parts")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "support@sparex.example | GSTIN 29ABCDE1234F1Z5")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "TAX INVOICE")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(95, 6, fmt.Sprintf("Invoice No: %s", order.InvoiceNumber))
	pdf.Cell(0, 6, fmt.Sprintf("Order No: %s", order.OrderNumber))
	pdf.Ln(6)
	pdf.Cell(95, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Cell(0, 6, fmt.Sprintf("Payment: %s", order.PaymentMethod))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Bill To")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	if user != nil {
		pdf.Cell(0, 5, user.Name)
		pdf.Ln(5)
	}
	addr := order.ShippingAddress
	pdf.Cell(0, 5, addr.Street)
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("%s, %s %s", addr.City, addr.State, addr.Pincode))
	pdf.Ln(5)
	if addr.Phone != "" {
		pdf.Cell(0, 5, "Phone: "+addr.Phone)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Part No", "1", 0, "L", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range order.Items {
		name := it.Name
		if len(name) > 38 {
			name = name[:35] + "..."
		}
		pdf.CellFormat(70, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, it.PartNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", it.Subtotal), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", order.Subtotal},
		{"Shipping", order.ShippingCharges},
		{fmt.Sprintf("GST (%.0f%%)", order.TaxPercentage), order.Tax},
		{"Total", order.TotalAmount},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(150, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", row.value), "", 1, "R", false, 0, "")
	}

	// Verification QR carries invoice and order numbers
	qrPNG, err := qrcode.Encode(order.InvoiceNumber+"|"+order.OrderNumber, qrcode.Medium, 256)
	if err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 160, pdf.GetY()+6, 30, 30, false, opts, 0, "")
	}

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 5, "This is a computer generated invoice and does not require a signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", err
	}

	path := PathFor(order)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
