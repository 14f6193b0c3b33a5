package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

// Export datasets
const (
	ExportVehicles = "vehicles"
	ExportSales    = "sales"
	ExportPayments = "payments"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ContentTypes maps export formats to their MIME type
var ContentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

// exportTable is a dataset ready to be written in any format
type exportTable struct {
	Title   string
	Headers []string
	Widths  []float64 // PDF column widths in mm
	Rows    [][]any
}

// ExportService writes list pages as CSV, XLSX or PDF files
type ExportService struct {
	vehicleRepo repository.VehicleRepository
	saleRepo    repository.SaleRepository
	historyRepo repository.PaymentHistoryRepository
	now         func() time.Time
}

func NewExportService(vehicleRepo repository.VehicleRepository, saleRepo repository.SaleRepository, historyRepo repository.PaymentHistoryRepository) *ExportService {
	return &ExportService{vehicleRepo: vehicleRepo, saleRepo: saleRepo, historyRepo: historyRepo, now: time.Now}
}

// Export writes every row matching the query filters; pagination is ignored.
func (s *ExportService) Export(ctx context.Context, dataset, format string, query *repository.ListQuery) (*Document, error) {
	if _, ok := ContentTypes[format]; !ok {
		return nil, fmt.Errorf("%w: formato %q", ErrValidation, format)
	}
	query.Page = 1
	query.PerPage = 0

	var table *exportTable
	var err error
	switch dataset {
	case ExportVehicles:
		table, err = s.vehiclesTable(ctx, query)
	case ExportSales:
		table, err = s.salesTable(ctx, query)
	case ExportPayments:
		table, err = s.paymentsTable(ctx, query)
	default:
		return nil, fmt.Errorf("%w: reporte %q", ErrValidation, dataset)
	}
	if err != nil {
		return nil, err
	}

	var content []byte
	switch format {
	case FormatCSV:
		content, err = writeCSV(table)
	case FormatXLSX:
		content, err = writeXLSX(table)
	case FormatPDF:
		content, err = writePDF(table, s.now())
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Filename: fmt.Sprintf("%s_%s.%s", dataset, s.now().Format("2006-01-02"), format),
		Content:  content,
	}, nil
}

func (s *ExportService) vehiclesTable(ctx context.Context, query *repository.ListQuery) (*exportTable, error) {
	vehicles, _, err := s.vehicleRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	table := &exportTable{
		Title:   "Inventario de vehículos",
		Headers: []string{"ID", "Marca", "Modelo", "Versión", "Año", "Km", "Placa", "Precio", "Estado"},
		Widths:  []float64{12, 30, 30, 40, 14, 22, 24, 30, 24},
	}
	for _, v := range vehicles {
		plate := ""
		if v.Plate != nil {
			plate = *v.Plate
		}
		table.Rows = append(table.Rows, []any{
			v.ID, v.Brand.Name, v.Model.Name, v.Version, v.Year, v.MileageKm, plate,
			v.Price.InexactFloat64(), v.Status,
		})
	}
	return table, nil
}

func (s *ExportService) salesTable(ctx context.Context, query *repository.ListQuery) (*exportTable, error) {
	sales, _, err := s.saleRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	table := &exportTable{
		Title:   "Ventas",
		Headers: []string{"ID", "Fecha", "Vehículo", "Cliente", "Forma de pago", "Total", "Estado", "Vendedor"},
		Widths:  []float64{12, 22, 60, 45, 32, 30, 24, 40},
	}
	for i := range sales {
		sale := &sales[i]
		customer, seller := "", ""
		if sale.Customer != nil {
			customer = sale.Customer.Name
		}
		if sale.Seller != nil {
			seller = sale.Seller.FullName
		}
		table.Rows = append(table.Rows, []any{
			sale.ID, sale.CreatedAt.Format("2006-01-02"), sale.Vehicle.Title(), customer,
			methodLabels[sale.PaymentMethod], sale.TotalValue.InexactFloat64(), statusLabels[sale.Status], seller,
		})
	}
	return table, nil
}

func (s *ExportService) paymentsTable(ctx context.Context, query *repository.ListQuery) (*exportTable, error) {
	entries, _, err := s.historyRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	table := &exportTable{
		Title:   "Pagos recibidos",
		Headers: []string{"ID", "Fecha", "Venta", "Cliente", "Vehículo", "Tipo", "Monto", "Nota"},
		Widths:  []float64{12, 22, 16, 45, 60, 26, 30, 55},
	}
	for i := range entries {
		resp := entries[i].ToResponse()
		note := ""
		if resp.Note != nil {
			note = *resp.Note
		}
		kind := "Cuota"
		if entries[i].IsSettlement() {
			kind = "Liquidación"
		}
		table.Rows = append(table.Rows, []any{
			resp.ID, resp.PaymentDate.Format("2006-01-02"), resp.SaleID, resp.CustomerName,
			resp.VehicleTitle, kind, resp.Amount, note,
		})
	}
	return table, nil
}

func writeCSV(table *exportTable) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	if err := writer.Write(table.Headers); err != nil {
		return nil, err
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func writeXLSX(table *exportTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Datos"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})

	for col, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for r, row := range table.Rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			_ = f.SetCellValue(sheet, cell, value)
			if _, ok := value.(float64); ok {
				_ = f.SetCellStyle(sheet, cell, cell, moneyStyle)
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(table.Headers))
	_ = f.SetColWidth(sheet, "A", last, 18)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDF(table *exportTable, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 12)

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(224, 224, 224)
		for i, h := range table.Headers {
			pdf.CellFormat(table.Widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(table.Title))
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 8, now.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
		header()
	})
	pdf.AddPage()

	for _, row := range table.Rows {
		for i, value := range row {
			text := cellString(value)
			align := "L"
			if f, ok := value.(float64); ok {
				text = formatMoneyFloat(f)
				align = "R"
			}
			maxChars := int(table.Widths[i] / 1.7)
			pdf.CellFormat(table.Widths[i], 6, tr(truncate(text, maxChars)), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Total de registros: %d", len(table.Rows)))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.2f", t)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
