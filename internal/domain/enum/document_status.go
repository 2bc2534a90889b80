package enum

import "database/sql/driver"

// DocumentStatus is the state of a stock-in or stock-out document.
type DocumentStatus int

const (
	DocumentStatusDraft DocumentStatus = iota
	DocumentStatusConfirmed
)

var documentStatusNames = []string{"draft", "confirmed"}

func (s DocumentStatus) String() string {
	return nameOf(documentStatusNames, int(s))
}

func (s DocumentStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *DocumentStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("document status", documentStatusNames, data)
	if err != nil {
		return err
	}
	*s = DocumentStatus(i)
	return nil
}

func (s DocumentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DocumentStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = DocumentStatus(i)
	return nil
}

// ParseDocumentStatus maps a query-string value to a DocumentStatus.
func ParseDocumentStatus(s string) (DocumentStatus, bool) {
	for i, n := range documentStatusNames {
		if n == s {
			return DocumentStatus(i), true
		}
	}
	return 0, false
}
