package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/models"
)

//go:embed templates/documents/*.html
var documentTemplates embed.FS

var methodLabels = map[string]string{
	models.PaymentMethodCash:       "Contado",
	models.PaymentMethodFinancing:  "Financiamiento bancario",
	models.PaymentMethodTradeIn:    "Vehículo en parte de pago",
	models.PaymentMethodPromissory: "Pagaré",
}

var statusLabels = map[string]string{
	models.SaleStatusPending:   "Pendiente",
	models.SaleStatusCompleted: "Completada",
	models.SaleStatusCanceled:  "Cancelada",
}

// Document is a generated file ready to be downloaded
type Document struct {
	Filename string
	Content  []byte
}

// DocumentService renders sale documents as PDF
type DocumentService struct {
	sales    *SaleService
	payments *PaymentService
	settings *SettingService
}

// NewDocumentService creates the document service. wkhtmltopdfPath overrides
// the binary lookup in PATH when set.
func NewDocumentService(sales *SaleService, payments *PaymentService, settings *SettingService, wkhtmltopdfPath string) *DocumentService {
	if wkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(wkhtmltopdfPath)
	}
	return &DocumentService{sales: sales, payments: payments, settings: settings}
}

// Receipt renders the sale receipt: vehicle, customer, terms and, for
// promissory sales, the payments received so far.
func (s *DocumentService) Receipt(ctx context.Context, saleID uint) (*Document, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	setting, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var saleLedger *SaleLedger
	if sale.IsPromissory() {
		if saleLedger, err = s.payments.Ledger(ctx, sale.ID); err != nil {
			return nil, err
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Recibo de venta #%d", sale.ID)), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(setting.DealershipName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if setting.Address != "" {
		pdf.CellFormat(0, 5, tr(setting.Address), "", 1, "C", false, 0, "")
	}
	if setting.Phone != "" {
		pdf.CellFormat(0, 5, tr("Tel. "+setting.Phone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Recibo de venta #%d", sale.ID)))
	pdf.Ln(10)

	row := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(50, 7, tr(label))
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 7, tr(value))
		pdf.Ln(6)
	}

	row("Fecha:", sale.CreatedAt.Format("02/01/2006"))
	row("Estado:", statusLabels[sale.Status])
	row("Vehículo:", sale.Vehicle.Title())
	if sale.Vehicle.Plate != nil {
		row("Placa:", *sale.Vehicle.Plate)
	}
	if sale.Customer != nil {
		row("Cliente:", sale.Customer.Name)
		row("Teléfono:", sale.Customer.Phone)
	}
	if sale.Seller != nil {
		row("Vendedor:", sale.Seller.FullName)
	}
	row("Forma de pago:", methodLabels[sale.PaymentMethod])
	row("Valor total:", formatMoney(sale.TotalValue))

	switch terms := sale.Terms().(type) {
	case models.FinancingTerms:
		row("Pago inicial:", formatMoney(terms.DownPayment))
		row("Monto financiado:", formatMoney(terms.FinancedAmount))
		row("Banco:", terms.BankName)
	case models.TradeInTerms:
		row("Vehículo recibido:", terms.TradeInVehicle)
		row("Valor recibido:", formatMoney(terms.TradeInValue))
		row("Diferencia:", formatMoney(sale.TotalValue.Sub(terms.TradeInValue)))
	case models.PromissoryTerms:
		row("Entrada:", formatMoney(terms.EntryValue))
		row("Cuotas:", fmt.Sprintf("%d x %s", terms.InstallmentCount, formatMoney(terms.InstallmentValue)))
	}

	if saleLedger != nil {
		view := saleLedger.Ledger
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr("Estado de cuenta"))
		pdf.Ln(9)
		row("Total pagado:", formatMoney(view.TotalPaid))
		row("Saldo pendiente:", formatMoney(view.Remaining))
		row("Avance:", view.ProgressPercent.StringFixed(2)+"%")

		if len(saleLedger.Payments) > 0 {
			pdf.Ln(3)
			pdf.SetFont("Arial", "B", 9)
			pdf.SetFillColor(235, 235, 235)
			pdf.CellFormat(35, 7, "Fecha", "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 7, "Tipo", "1", 0, "C", true, 0, "")
			pdf.CellFormat(40, 7, "Monto", "1", 0, "C", true, 0, "")
			pdf.CellFormat(0, 7, "Nota", "1", 1, "C", true, 0, "")
			pdf.SetFont("Arial", "", 9)
			for _, p := range saleLedger.Payments {
				kind := "Cuota"
				if p.Type == models.PaymentTypeSettlement {
					kind = "Liquidación"
				}
				note := ""
				if p.Note != nil {
					note = *p.Note
				}
				pdf.CellFormat(35, 6, p.PaymentDate.Format("02/01/2006"), "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 6, tr(kind), "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, tr(formatMoneyFloat(p.Amount)), "1", 0, "R", false, 0, "")
				pdf.CellFormat(0, 6, tr(truncate(note, 45)), "1", 1, "L", false, 0, "")
			}
		}
	}

	if sale.IsCanceled() {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(200, 0, 0)
		pdf.Cell(0, 8, tr("VENTA CANCELADA"))
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(8)
	}

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, tr("Generado el "+time.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return &Document{
		Filename: fmt.Sprintf("recibo_venta_%d.pdf", sale.ID),
		Content:  buf.Bytes(),
	}, nil
}

// PromissoryNoteData feeds promissory_note.html
type PromissoryNoteData struct {
	SaleID           uint
	IssuedAt         time.Time
	DealershipName   string
	CustomerName     string
	CustomerDocument string
	VehicleTitle     string
	VehiclePlate     string
	TotalValue       float64
	EntryValue       float64
	Financed         float64
	FinancedWords    string
	InstallmentCount int
	InstallmentValue float64
	InstallmentWords string
	FirstDueDate     time.Time
	Schedule         []PromissoryNoteRow
}

// PromissoryNoteRow is one installment of the note
type PromissoryNoteRow struct {
	Number  int
	DueDate time.Time
	Amount  float64
}

// PromissoryNote renders the note the customer signs for a promissory sale.
func (s *DocumentService) PromissoryNote(ctx context.Context, saleID uint) (*Document, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	terms, ok := sale.PromissoryTerms()
	if !ok {
		return nil, ErrNotPromissory
	}
	setting, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	data, err := promissoryNoteData(sale, terms, setting.DealershipName)
	if err != nil {
		return nil, err
	}
	content, err := s.renderPDF("promissory_note.html", data)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename: fmt.Sprintf("pagare_venta_%d.pdf", sale.ID),
		Content:  content,
	}, nil
}

func promissoryNoteData(sale *models.Sale, terms models.PromissoryTerms, dealershipName string) (*PromissoryNoteData, error) {
	if sale.Customer == nil {
		return nil, fmt.Errorf("%w: la venta no tiene cliente asignado", ErrValidation)
	}

	view := ledger.Compute(terms.InstallmentCount, terms.InstallmentValue, nil)
	schedule := ledger.Schedule(sale.CreatedAt, view, sale.CreatedAt)
	rows := make([]PromissoryNoteRow, len(schedule))
	for i, inst := range schedule {
		rows[i] = PromissoryNoteRow{Number: inst.Number, DueDate: inst.DueDate, Amount: inst.Amount.InexactFloat64()}
	}

	data := &PromissoryNoteData{
		SaleID:           sale.ID,
		IssuedAt:         sale.CreatedAt,
		DealershipName:   dealershipName,
		CustomerName:     sale.Customer.Name,
		VehicleTitle:     sale.Vehicle.Title(),
		TotalValue:       sale.TotalValue.InexactFloat64(),
		EntryValue:       terms.EntryValue.InexactFloat64(),
		Financed:         view.TotalDebt.InexactFloat64(),
		FinancedWords:    AmountToWords(view.TotalDebt),
		InstallmentCount: terms.InstallmentCount,
		InstallmentValue: terms.InstallmentValue.InexactFloat64(),
		InstallmentWords: AmountToWords(terms.InstallmentValue),
		FirstDueDate:     ledger.AddMonths(sale.CreatedAt, 1),
		Schedule:         rows,
	}
	if sale.Customer.DocumentID != nil {
		data.CustomerDocument = *sale.Customer.DocumentID
	}
	if sale.Vehicle.Plate != nil {
		data.VehiclePlate = *sale.Vehicle.Plate
	}
	return data, nil
}

func (s *DocumentService) renderPDF(templateName string, data any) ([]byte, error) {
	tmpl, err := template.New(templateName).Funcs(emailFuncs).ParseFS(documentTemplates, "templates/documents/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeLetter)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.Encoding.Set("utf-8")
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
