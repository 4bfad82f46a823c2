package domain

import (
	"encoding/json"
	"strings"
)

// Category values are the strings persisted by the storefront; they are part of the storage format.
type Category string

const (
	CategoryBeer    Category = "Cervejas"
	CategorySoda    Category = "Refrigerantes"
	CategoryWater   Category = "Água"
	CategorySpirits Category = "Destilados"
	CategoryIce     Category = "Gelo/Carvão"
	CategoryOther   Category = "Outros"
)

var Categories = []Category{CategoryBeer, CategorySoda, CategoryWater, CategorySpirits, CategoryIce, CategoryOther}

var categoryAliases = map[string]Category{
	"beer":         CategoryBeer,
	"soda":         CategorySoda,
	"water":        CategoryWater,
	"spirits":      CategorySpirits,
	"ice":          CategoryIce,
	"ice/charcoal": CategoryIce,
	"other":        CategoryOther,
	"others":       CategoryOther,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory accepts a stored value or its English name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, k := range Categories {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	if c, ok := categoryAliases[strings.ToLower(s)]; ok {
		return c, nil
	}
	return "", Invalid("category", "unknown category "+quote(s))
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return Invalid("category", "must be a string")
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Dinheiro"
	PaymentPix    PaymentMethod = "Pix"
	PaymentCredit PaymentMethod = "Crédito"
	PaymentDebit  PaymentMethod = "Débito"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentPix, PaymentCredit, PaymentDebit}

var paymentAliases = map[string]PaymentMethod{
	"cash":   PaymentCash,
	"credit": PaymentCredit,
	"debit":  PaymentDebit,
}

func (m PaymentMethod) Valid() bool {
	for _, k := range PaymentMethods {
		if m == k {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, k := range PaymentMethods {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	if m, ok := paymentAliases[strings.ToLower(s)]; ok {
		return m, nil
	}
	return "", Invalid("paymentMethod", "unknown payment method "+quote(s))
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return Invalid("paymentMethod", "must be a string")
	}
	parsed, err := ParsePaymentMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func quote(s string) string { return "\"" + s + "\"" }
