package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"forems-backend/config"
	"forems-backend/db/models"
	"forems-backend/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// TenancyContractData holds everything the contract template renders.
type TenancyContractData struct {
	ContractNumber   string
	GeneratedDate    string
	TenantName       string
	LandlordName     string
	PropertyTitle    string
	PropertyAddress  string
	PropertyCity     string
	RentAmount       string
	RentCurrency     string
	PaymentReference string
	PaidDate         string
	DurationMonths   int
	StartDate        string
}

// ContractService turns a paid application into a signed-ready tenancy
// contract PDF, stores it, and emails it to the tenant.
type ContractService struct {
	storage utils.FileStorage
}

func NewContractService(storage utils.FileStorage) *ContractService {
	return &ContractService{storage: storage}
}

const tenancyContractTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; margin: 48px; color: #1a1a1a; }
  h1 { text-align: center; font-size: 22px; letter-spacing: 1px; }
  .meta { text-align: center; color: #555; margin-bottom: 32px; }
  table { width: 100%; border-collapse: collapse; margin: 24px 0; }
  td { padding: 8px 12px; border-bottom: 1px solid #ddd; }
  td:first-child { font-weight: bold; width: 40%; }
  .clause { margin: 16px 0; line-height: 1.6; text-align: justify; }
  .signatures { margin-top: 64px; display: flex; justify-content: space-between; }
  .signature-block { width: 40%; border-top: 1px solid #333; padding-top: 8px; text-align: center; }
</style>
</head>
<body>
  <h1>TENANCY AGREEMENT</h1>
  <div class="meta">Contract No. {{.ContractNumber}} &middot; Generated {{.GeneratedDate}}</div>

  <table>
    <tr><td>Tenant</td><td>{{.TenantName}}</td></tr>
    <tr><td>Landlord</td><td>{{.LandlordName}}</td></tr>
    <tr><td>Property</td><td>{{.PropertyTitle}}, {{.PropertyAddress}}, {{.PropertyCity}}</td></tr>
    <tr><td>Rent</td><td>{{.RentCurrency}} {{.RentAmount}}</td></tr>
    {{if .DurationMonths}}<tr><td>Duration</td><td>{{.DurationMonths}} months</td></tr>{{end}}
    {{if .StartDate}}<tr><td>Commencement</td><td>{{.StartDate}}</td></tr>{{end}}
    <tr><td>Contract fee reference</td><td>{{.PaymentReference}}</td></tr>
    <tr><td>Contract fee paid on</td><td>{{.PaidDate}}</td></tr>
  </table>

  <p class="clause">This agreement is made between the Landlord and the Tenant named
  above in respect of the Property described above. The Tenant shall pay the rent
  stated above in advance and shall use the Property as a private residence only.</p>

  <p class="clause">The Tenant shall keep the interior of the Property in good and
  tenantable repair, fair wear and tear excepted, and shall not assign or sublet
  the Property without the prior written consent of the Landlord.</p>

  <div class="signatures">
    <div class="signature-block">Landlord</div>
    <div class="signature-block">Tenant</div>
  </div>
</body>
</html>`

// GenerateTenancyContract renders and stores the contract PDF, returning
// the stored file path.
func (s *ContractService) GenerateTenancyContract(application models.Application) (string, error) {
	data, err := prepareContractData(application)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("tenancy_contract").Parse(tenancyContractTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse contract template: %w", err)
	}

	var htmlBuffer bytes.Buffer
	if err := tmpl.Execute(&htmlBuffer, data); err != nil {
		return "", fmt.Errorf("failed to render contract template: %w", err)
	}

	var pdfBuffer bytes.Buffer
	if err := renderContractPDF(htmlBuffer.String(), &pdfBuffer); err != nil {
		return "", fmt.Errorf("failed to render contract PDF: %w", err)
	}

	filename := fmt.Sprintf("tenancy_contract_%s.pdf", application.ID.String())
	storedPath, err := s.storage.UploadFileFromReader(
		bytes.NewReader(pdfBuffer.Bytes()),
		filepath.Join("contracts", filename),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store contract PDF: %w", err)
	}

	config.Logger.Info("Tenancy contract generated",
		zap.String("applicationID", application.ID.String()),
		zap.String("path", storedPath))
	return storedPath, nil
}

// DeliverContract emails the generated contract to the tenant.
func (s *ContractService) DeliverContract(application models.Application, contractPath string) error {
	subject := "Your tenancy agreement for " + application.Property.Title
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your contract payment has been confirmed and your tenancy agreement for <b>%s</b> is attached.</p><p>Forems</p>",
		application.TenantNameSnapshot,
		application.Property.Title,
	)

	if err := utils.SendEmail(application.Tenant.Email, subject, body, contractPath); err != nil {
		return fmt.Errorf("failed to email tenancy contract: %w", err)
	}
	return nil
}

func prepareContractData(application models.Application) (TenancyContractData, error) {
	payment := application.ContractPayment
	if payment.Reference == nil || payment.PaidAt == nil {
		return TenancyContractData{}, fmt.Errorf("application %s has no settled contract payment", application.ID)
	}

	amount := ""
	if payment.Amount != nil {
		amount = payment.Amount.StringFixed(2)
	}
	currency := application.Property.RentCurrency
	if payment.Currency != nil {
		currency = *payment.Currency
	}

	form := application.FormData.Data()
	data := TenancyContractData{
		ContractNumber:   *payment.Reference,
		GeneratedDate:    time.Now().In(utils.DateLocation).Format("2 January 2006"),
		TenantName:       application.TenantNameSnapshot,
		LandlordName:     application.Property.Landlord.FullName(),
		PropertyTitle:    application.Property.Title,
		PropertyAddress:  application.Property.Address,
		PropertyCity:     application.Property.City,
		RentAmount:       amount,
		RentCurrency:     currency,
		PaymentReference: *payment.Reference,
		PaidDate:         payment.PaidAt.In(utils.DateLocation).Format("2 January 2006"),
	}
	if form.Contract != nil {
		data.DurationMonths = form.Contract.DurationMonths
		data.StartDate = form.Contract.StartDate
	}
	return data, nil
}

// renderContractPDF serves the HTML on a loopback listener and prints it
// to an A4 portrait PDF through headless Chrome.
func renderContractPDF(htmlContent string, out *bytes.Buffer) error {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(htmlContent))
	})

	server := &http.Server{Handler: mux}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer listener.Close()

	go server.Serve(listener)
	defer server.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://127.0.0.1:%d", port)

	var buf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				WithLandscape(false).
				WithPreferCSSPageSize(false).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return err
	}

	_, err = out.Write(buf)
	return err
}

// EnsureContractDirectory makes sure the local contract directory exists
// before the worker starts taking jobs.
func EnsureContractDirectory(basePath string) error {
	return os.MkdirAll(filepath.Join(basePath, "contracts"), 0755)
}
