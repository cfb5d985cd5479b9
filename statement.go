package bankgo

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// writeStatementPDF renders an account's charge history as a one-table
// PDF statement.
func writeStatementPDF(w io.Writer, acct *Account, charges []Charge) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Account: "+acct.Number.String())
	pdf.Ln(6)
	pdf.Cell(0, 6, "Balance: "+acct.Balance.String())
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Operation", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Kind", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, chg := range charges {
		pdf.CellFormat(45, 7, chg.CreatedAt.Format("2006-01-02 15:04:05"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, chg.Op, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, chg.Kind, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, chg.Amount.String(), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
