package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData is everything printed on a payment receipt.
type ReceiptData struct {
	Number      string
	Date        string
	Method      string
	Item        string
	Amount      string
	AmountWords string
	PayeeName   string
	PayeePhone  string
	BrandName   string
	Tagline     string
	Address     string
	Logo        []byte
}

// ReceiptNumber is the first 8 characters of the payment id, upper-cased.
func ReceiptNumber(paymentID string) string {
	if len(paymentID) > 8 {
		paymentID = paymentID[:8]
	}
	return strings.ToUpper(paymentID)
}

// ReceiptFileName is the download name for a payment's receipt.
func ReceiptFileName(paymentID string) string {
	if len(paymentID) > 8 {
		paymentID = paymentID[:8]
	}
	return "receipt-" + paymentID + ".pdf"
}

// BuildReceiptData lays out a payment for printing under brand.
func BuildReceiptData(p *PaymentRow, brand Branding) ReceiptData {
	date := p.Date
	if t, err := ParseDate(p.Date); err == nil {
		date = t.Format("02/01/2006")
	}
	item := PaymentTypeLabel(p.Type)
	if p.Note != "" {
		item += " - " + p.Note
	}
	name := brand.BrandName
	if name == "" {
		name = "Project Site"
	}
	return ReceiptData{
		Number:      ReceiptNumber(p.ID),
		Date:        date,
		Method:      p.Method,
		Item:        item,
		Amount:      rupees(p.Amount.StringFixed(2)),
		AmountWords: AmountToWords(p.Amount),
		PayeeName:   p.WorkerName,
		PayeePhone:  p.Phone,
		BrandName:   name,
		Tagline:     brand.Tagline,
		Address:     brand.SiteAddress,
		Logo:        brand.Logo,
	}
}

// rupees renders a fixed-point amount as "Rs. 1,23,456.00". The core PDF
// fonts have no rupee glyph.
func rupees(fixed string) string {
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	whole, frac, _ := strings.Cut(fixed, ".")
	s := "Rs. " + applyIndianGrouping(whole)
	if frac != "" {
		s += "." + frac
	}
	if neg {
		s = "-" + s
	}
	return s
}

// GenerateReceiptPDF renders a single-payment receipt using maroto/v2.
func GenerateReceiptPDF(data ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(14).
		WithTopMargin(14).
		WithRightMargin(14).
		Build()

	m := maroto.New(cfg)

	addReceiptHeader(m, data)
	addReceiptPayee(m, data)
	addReceiptTable(m, data)
	addReceiptTotal(m, data)
	addReceiptFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addReceiptHeader adds the brand block on the left and the RECEIPT block on
// the right.
func addReceiptHeader(m core.Maroto, data ReceiptData) {
	grey := &props.Color{Red: 100, Green: 100, Blue: 100}

	brand := col.New(8)
	if len(data.Logo) > 0 {
		m.AddRows(
			row.New(18).Add(
				col.New(3).Add(image.NewFromBytes(data.Logo, extension.Png, props.Rect{Percent: 100})),
				col.New(9),
			),
		)
	}
	brand.Add(text.New(data.BrandName, props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 40, Green: 40, Blue: 40},
	}))

	m.AddRows(
		row.New(12).Add(
			brand,
			col.New(4).Add(text.New("RECEIPT", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
	)

	details := []string{
		"Receipt #: " + data.Number,
		"Date: " + data.Date,
	}
	if data.Method != "" {
		details = append(details, "Method: "+data.Method)
	}
	left := []string{data.Tagline, data.Address}

	for i := 0; i < len(details) || i < len(left); i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(details) {
			r = details[i]
		}
		m.AddRows(
			row.New(6).Add(
				col.New(8).Add(text.New(l, props.Text{Size: 10, Align: align.Left, Color: grey})),
				col.New(4).Add(text.New(r, props.Text{Size: 10, Align: align.Left})),
			),
		)
	}

	m.AddRows(row.New(6))
}

// addReceiptPayee adds the "Billed To" block.
func addReceiptPayee(m core.Maroto, data ReceiptData) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("Billed To:", props.Text{Size: 10, Align: align.Left})),
		),
		row.New(7).Add(
			col.New(12).Add(text.New(data.PayeeName, props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
	)
	if data.PayeePhone != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New(data.PayeePhone, props.Text{
					Size:  10,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				})),
			),
		)
	}
	m.AddRows(row.New(8))
}

// addReceiptTable adds the single-row item table.
func addReceiptTable(m core.Maroto, data ReceiptData) {
	headerCell := &props.Cell{
		BackgroundColor: &props.Color{Red: 66, Green: 66, Blue: 66},
	}
	headerText := props.Text{
		Size:  10,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Top:   2,
		Left:  2,
	}
	headerRight := headerText
	headerRight.Align = align.Right
	headerRight.Right = 2

	bodyCell := &props.Cell{
		BorderType:  border.Full,
		BorderColor: &props.Color{Red: 200, Green: 200, Blue: 200},
	}

	m.AddRows(
		row.New(9).Add(
			col.New(9).Add(text.New("Item / Description", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("Amount", headerRight)).WithStyle(headerCell),
		),
		row.New(10).Add(
			col.New(9).Add(text.New(data.Item, props.Text{Size: 10, Top: 3, Left: 2})).WithStyle(bodyCell),
			col.New(3).Add(text.New(data.Amount, props.Text{Size: 10, Top: 3, Right: 2, Align: align.Right})).WithStyle(bodyCell),
		),
	)
}

// addReceiptTotal adds the total and the amount in words.
func addReceiptTotal(m core.Maroto, data ReceiptData) {
	m.AddRows(
		row.New(6),
		row.New(8).Add(
			col.New(6),
			col.New(6).Add(text.New("Total Paid: "+data.Amount, props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
		),
		row.New(8).Add(
			col.New(12).Add(text.New("Amount in Words: "+data.AmountWords, props.Text{
				Size:  9,
				Style: fontstyle.BoldItalic,
				Align: align.Left,
			})),
		),
	)
}

// addReceiptFooter adds the thank-you line and brand name at the page foot.
func addReceiptFooter(m core.Maroto, data ReceiptData) {
	footer := props.Text{
		Size:  10,
		Align: align.Center,
		Color: &props.Color{Red: 150, Green: 150, Blue: 150},
	}
	m.AddRows(
		row.New(20),
		row.New(6).Add(col.New(12).Add(text.New("Thank you for your hard work!", footer))),
		row.New(6).Add(col.New(12).Add(text.New(data.BrandName, footer))),
		row.New(6).Add(col.New(12).Add(text.New(
			"Generated on "+time.Now().Format("02/01/2006"),
			props.Text{Size: 7, Align: align.Center, Color: &props.Color{Red: 180, Green: 180, Blue: 180}},
		))),
	)
}
