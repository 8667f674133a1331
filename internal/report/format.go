package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats a coin amount as "$14,000".
func Money(n int) string {
	return printer.Sprintf("$%d", n)
}

// Rarity buckets a material unit value for display.
func Rarity(value int) string {
	switch {
	case value >= 5000:
		return "Epic/Legendary"
	case value >= 1000:
		return "Rare"
	case value >= 500:
		return "Uncommon"
	default:
		return "Common"
	}
}
