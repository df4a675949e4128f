package loaders

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
)

// XlsxLoader implements the Loader interface for reading Excel (.xlsx) files.
type XlsxLoader struct{}

// NewXlsxLoader creates a new XlsxLoader.
func NewXlsxLoader() *XlsxLoader {
	return &XlsxLoader{}
}

// Load reads an .xlsx file, converting each sheet to a Markdown table.
// It returns a Document for each non-empty sheet.
func (l *XlsxLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var documents []*schema.Document
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil || len(rows) == 0 {
			continue
		}

		var mdBuilder strings.Builder
		mdBuilder.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
		mdBuilder.WriteString("|" + strings.Repeat("---|", len(rows[0])) + "\n")
		for _, row := range rows[1:] {
			mdBuilder.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}

		documents = append(documents, &schema.Document{
			ID:   uuid.New().String(),
			Text: mdBuilder.String(),
			Metadata: map[string]string{
				schema.MetadataKeyFileName:  filepath.Base(path),
				schema.MetadataKeySheetName: sheetName,
			},
		})
	}

	return documents, nil
}

// compile-time check to ensure XlsxLoader implements the Loader interface
var _ interfaces.Loader = (*XlsxLoader)(nil)
