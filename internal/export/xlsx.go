package export

import (
	"fmt"
	"io"
	"time"

	"github.com/gof-esteira/oficios-api/internal/store/model"
	"github.com/tealeg/xlsx/v2"
)

const timeLayout = "02/01/2006 15:04"

var reportHeader = []string{
	"Recebido em",
	"Remetente",
	"Assunto",
	"Tipo",
	"Status",
	"Ação sugerida",
	"Motivo",
	"Anotado em",
}

// WriteReport renders the document list as a spreadsheet for the back
// office. Rows follow the order of the input slice.
func WriteReport(w io.Writer, documents model.DocumentList) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Ofícios")
	if err != nil {
		return fmt.Errorf("creating report sheet: %w", err)
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true

	row := sheet.AddRow()
	for _, title := range reportHeader {
		cell := row.AddCell()
		cell.SetString(title)
		cell.SetStyle(headerStyle)
	}

	for i := range documents {
		addDocumentRow(sheet, &documents[i])
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func addDocumentRow(sheet *xlsx.Sheet, document *model.Document) {
	row := sheet.AddRow()
	row.AddCell().SetString(document.ReceivedAt.Format(timeLayout))
	row.AddCell().SetString(document.Sender)
	row.AddCell().SetString(document.Subject)
	row.AddCell().SetString(document.DocType)
	row.AddCell().SetString(document.Status)
	row.AddCell().SetString(stringValue(document.SuggestedAction))
	row.AddCell().SetString(stringValue(document.Reason))
	row.AddCell().SetString(timeValue(document.AnnotatedAt))
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
