package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"shopledger/internal/ledger"
	"shopledger/internal/model"

	"github.com/jung-kurt/gofpdf/v2"
)

// DocumentRenderer turns ledger records into printable documents.
type DocumentRenderer interface {
	InvoicePDF(shop model.Shop, inv model.Invoice) ([]byte, error)
	QuotationPDF(shop model.Shop, q model.Quotation) ([]byte, error)
	TransactionsCSV(w io.Writer, rows []TransactionRow) error
}

type documentRenderer struct{}

func NewDocumentRenderer() DocumentRenderer {
	return documentRenderer{}
}

func newDocument(shop model.Shop, title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, shop.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, shop.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Phone: %s | GST: %s", shop.Phone, shop.GST), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, title, "1", 1, "L", true, 0, "")
	return pdf
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, titles []string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, title := range titles {
		ln := 0
		if i == len(titles)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, title, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
}

func tableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string) {
	for i, cell := range cells {
		ln, align := 0, "C"
		if i == len(cells)-1 {
			ln = 1
		}
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 6, cell, "1", ln, align, false, 0, "")
	}
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (documentRenderer) InvoicePDF(shop model.Shop, inv model.Invoice) ([]byte, error) {
	pdf := newDocument(shop, "Invoice "+inv.InvoiceNumber)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", inv.Customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", inv.Customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", inv.Date), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Due: %s", inv.DueDate), "RB", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{40, 18, 14, 20, 14, 18, 16, 16, 34}
	tableHeader(pdf, widths, []string{"Item", "HSN", "Qty", "Rate", "Unit", "Disc%", "SGST%", "CGST%", "Amount"})
	for _, it := range inv.Items {
		tableRow(pdf, widths, []string{
			it.ItemName,
			it.HSN,
			strconv.Itoa(it.Quantity),
			it.Rate.StringFixed(2),
			it.Unit,
			it.Discount.String(),
			it.SGST.String(),
			it.CGST.String(),
			ledger.LineTotal(it).StringFixed(2),
		})
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Total: Rs. %s", inv.Total.StringFixed(2)), "", 1, "R", false, 0, "")
	return output(pdf)
}

func (documentRenderer) QuotationPDF(shop model.Shop, q model.Quotation) ([]byte, error) {
	pdf := newDocument(shop, "Quotation "+q.QuotationNumber)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, fmt.Sprintf("Customer: %s - %s", q.Customer.Name, q.Customer.Phone), "LRB", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{50, 22, 18, 26, 18, 22, 34}
	tableHeader(pdf, widths, []string{"Item", "HSN", "Qty", "Rate", "Unit", "Discount%", "Amount"})
	for _, it := range q.Items {
		tableRow(pdf, widths, []string{
			it.ItemName,
			it.HSN,
			strconv.Itoa(it.Quantity),
			it.Rate.StringFixed(2),
			it.Unit,
			it.Discount.String() + "%",
			ledger.QuotationLineTotal(it).StringFixed(2),
		})
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Total: Rs. %s", q.Total.StringFixed(2)), "", 1, "R", false, 0, "")
	return output(pdf)
}

// TransactionsCSV writes the Type,Amount,Details,Date export.
func (documentRenderer) TransactionsCSV(w io.Writer, rows []TransactionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Type", "Amount", "Details", "Date"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Type, r.Amount.String(), r.Details, r.Date.Format(time.RFC3339)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
