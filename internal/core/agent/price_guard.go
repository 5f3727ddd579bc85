package agent

import "strings"

// priceKeywords are matched as lower-cased substrings. Short markers such as
// "rm" also hit words like "form"; the guard errs towards escalating.
var priceKeywords = []string{
	// English
	"price", "pricing", "cost", "how much", "cheap", "expensive", "discount",
	// Malay
	"harga", "berapa", "kos", "murah", "mahal", "diskaun", "bayaran", "yuran",
	// Chinese
	"价格", "价钱", "多少钱", "几钱", "费用", "便宜", "贵", "折扣", "优惠",
	// Currency markers
	"rm", "$", "myr", "usd", "¥", "元",
}

var priceEscalationParts = []string{
	"Thanks for your interest! 😊",
	"For pricing details, our team will get back to you shortly with the latest prices and offers.",
	"In the meantime, feel free to ask me anything else about our products!",
}

// IsPriceQuery reports whether message looks like it asks for a price
func IsPriceQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range priceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// PriceEscalationReply is the canned reply split by the avatar's delimiter
func PriceEscalationReply(delimiter string) string {
	return strings.Join(priceEscalationParts, delimiter)
}
