package enum

import "database/sql/driver"

// InvoiceStatus is the lifecycle state of an invoice. Paid and cancelled are terminal.
type InvoiceStatus int

const (
	InvoiceStatusOpen InvoiceStatus = iota
	InvoiceStatusPaid
	InvoiceStatusCancelled
)

var invoiceStatusNames = []string{"open", "paid", "cancelled"}

func (s InvoiceStatus) String() string {
	return nameOf(invoiceStatusNames, int(s))
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("invoice status", invoiceStatusNames, data)
	if err != nil {
		return err
	}
	*s = InvoiceStatus(i)
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = InvoiceStatus(i)
	return nil
}

// ParseInvoiceStatus maps a query-string value to a InvoiceStatus.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	for i, n := range invoiceStatusNames {
		if n == s {
			return InvoiceStatus(i), true
		}
	}
	return 0, false
}
