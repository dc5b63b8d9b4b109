// Package format renders amounts and timestamps the way the café displays
// them: Thai baht with no satang, Thai month names, Buddhist-era years.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Thai)

// Baht formats a whole-baht amount with grouping and no fractional digits:
// 1200 -> "฿1,200".
func Baht(amount int64) string {
	return printer.Sprintf("฿%v", number.Decimal(amount, number.MaxFractionDigits(0)))
}

// BahtDecimal rounds to whole baht and formats like Baht. Menu prices are
// whole baht; rounding only matters for computed aggregates.
func BahtDecimal(d decimal.Decimal) string {
	return Baht(d.Round(0).IntPart())
}

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// buddhistEraOffset converts Gregorian to Thai Buddhist-era years.
const buddhistEraOffset = 543

// Date formats a timestamp as a Thai date: "31 สิงหาคม 2569".
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year()+buddhistEraOffset)
}

// Time formats a timestamp as Thai clock time: "14:05 น.".
func Time(t time.Time) string {
	return fmt.Sprintf("%02d:%02d น.", t.Hour(), t.Minute())
}

// DateTime combines Date and Time.
func DateTime(t time.Time) string {
	return Date(t) + " " + Time(t)
}
