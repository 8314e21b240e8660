package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"gtm-blueprint-api/pkg/catalog"

	"github.com/xuri/excelize/v2"
)

// CatalogSheetName エクスポートするシート名
const CatalogSheetName = "Trending Products"

// catalogHeader テーブル表示と同じ列順
var catalogHeader = []string{"Product", "Launch Date", "Category", "User Sentiment", "Competitors"}

func catalogRows(c catalog.Catalog) [][]string {
	rows := make([][]string, 0, len(c)+1)
	rows = append(rows, catalogHeader)
	for _, p := range c {
		rows = append(rows, []string{p.Name, p.LaunchDate, p.Category, string(p.Sentiment), p.CompetitorList()})
	}
	return rows
}

// ExportCatalogXLSX カタログをExcelファイルとして書き出します。
func ExportCatalogXLSX(c catalog.Catalog, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CatalogSheetName); err != nil {
		return fmt.Errorf("シート名の設定に失敗: %w", err)
	}

	for i, row := range catalogRows(c) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(CatalogSheetName, cell, &values); err != nil {
			return fmt.Errorf("行の書き込みに失敗: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("Excelファイルの書き出しに失敗: %w", err)
	}
	return nil
}

// ExportCatalogCSV カタログをCSVとして書き出します。
func ExportCatalogCSV(c catalog.Catalog, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(catalogRows(c)); err != nil {
		return fmt.Errorf("CSVの書き出しに失敗: %w", err)
	}
	return nil
}

// ExportFormat returns the content type and file extension for a requested export format.
func ExportFormat(format string) (contentType, ext string, ok bool) {
	switch strings.ToLower(format) {
	case "", "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", true
	case "csv":
		return "text/csv; charset=utf-8", "csv", true
	}
	return "", "", false
}
