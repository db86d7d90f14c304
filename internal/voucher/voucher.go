// Package voucher renders the PDF a guest shows on the day of the tour.
package voucher

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/currency"

	"tourbooking/internal/domain"
)

// Render builds a one-page A4 voucher for a booking.
func Render(b *domain.Booking, tourName string) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("voucher: booking is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking voucher "+b.Reference, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING VOUCHER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference   : %s", b.Reference),
		fmt.Sprintf("Status      : %s", b.Status),
		fmt.Sprintf("Tour        : %s", safe(tourName, "-")),
		fmt.Sprintf("Date / time : %s %s", b.BookingDate, safe(b.BookingTime, "")),
		fmt.Sprintf("Lead guest  : %s", safe(b.Customer.Name, "-")),
		fmt.Sprintf("Email       : %s", safe(b.Customer.Email, "-")),
		fmt.Sprintf("Phone       : %s", safe(b.Customer.Phone, "-")),
		fmt.Sprintf("Pickup      : %s", safe(b.Customer.PickupLocation, "-")),
		fmt.Sprintf("Guests      : %d adult, %d child, %d infant",
			b.Selection.Guests.Adult, b.Selection.Guests.Child, b.Selection.Guests.Infant),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range b.Selection.Breakdown {
		pdf.Cell(0, 6, fmt.Sprintf("%s x %d  %s", item.Label, item.Quantity, FormatAmount(item.TotalRetail, b.Currency)))
		pdf.Ln(6)
	}
	for _, u := range b.Selection.Upsells {
		pdf.Cell(0, 6, fmt.Sprintf("%s x %d  %s", u.Name, u.Quantity, FormatAmount(u.TotalPrice, b.Currency)))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+FormatAmount(b.TotalRetail, b.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this voucher, printed or on your phone, at pickup.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename is the download name used for a booking voucher.
func Filename(reference string) string {
	return fmt.Sprintf("VOUCHER_%s.pdf", strings.ReplaceAll(reference, " ", "_"))
}

// FormatAmount renders minor units using the currency's standard scale, e.g. "THB 1,250.00".
func FormatAmount(minor int64, code string) string {
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	div := int64(1)
	for i := 0; i < scale; i++ {
		div *= 10
	}
	whole := groupThousands(strconv.FormatInt(minor/div, 10))
	if scale == 0 {
		return fmt.Sprintf("%s %s%s", code, sign, whole)
	}
	return fmt.Sprintf("%s %s%s.%0*d", code, sign, whole, scale, minor%div)
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func safe(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
