package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vnPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders an amount with Vietnamese digit grouping, e.g. "5.000.000 VND".
func FormatVND(amount int64) string {
	return vnPrinter.Sprintf("%d", amount) + " VND"
}
