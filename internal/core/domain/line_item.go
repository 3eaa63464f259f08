package domain

import (
	"math"
	"strconv"
	"strings"
)

// StorageKey is the local storage key holding the serialized cart.
const StorageKey = "bata_cart"

type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price * quantity, unrounded.
func (i LineItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Valid reports whether the item satisfies the cart invariants.
func (i LineItem) Valid() bool {
	return i.ID != "" && ValidPrice(i.Price) && i.Quantity >= 1
}

func ValidPrice(price float64) bool {
	return price >= 0 && !math.IsNaN(price) && !math.IsInf(price, 0)
}

// ParsePrice reads a catalogue price label such as "$49.99" or "49.99".
func ParsePrice(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatPrice renders an amount with two decimals, as shown on the cart panel.
func FormatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
