package enum

import "database/sql/driver"

// PaymentMethod is how a paid invoice was settled.
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = iota
	PaymentMethodCard
	PaymentMethodBankTransfer
	PaymentMethodEWallet
)

var paymentMethodNames = []string{"cash", "card", "bank_transfer", "e_wallet"}

func (s PaymentMethod) String() string {
	return nameOf(paymentMethodNames, int(s))
}

func (s PaymentMethod) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := parseName("payment method", paymentMethodNames, data)
	if err != nil {
		return err
	}
	*s = PaymentMethod(i)
	return nil
}

func (s PaymentMethod) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentMethod) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = PaymentMethod(i)
	return nil
}

// ParsePaymentMethod maps a query-string value to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for i, n := range paymentMethodNames {
		if n == s {
			return PaymentMethod(i), true
		}
	}
	return 0, false
}
