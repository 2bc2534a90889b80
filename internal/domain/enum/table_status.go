package enum

import "database/sql/driver"

// TableStatus is the occupancy of a dining table.
type TableStatus int

const (
	TableStatusEmpty TableStatus = iota
	TableStatusInUse
	TableStatusReserved
)

var tableStatusNames = []string{"empty", "in_use", "reserved"}

func (s TableStatus) String() string {
	return nameOf(tableStatusNames, int(s))
}

func (s TableStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *TableStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("table status", tableStatusNames, data)
	if err != nil {
		return err
	}
	*s = TableStatus(i)
	return nil
}

func (s TableStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TableStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = TableStatus(i)
	return nil
}

// ParseTableStatus maps a query-string value to a TableStatus.
func ParseTableStatus(s string) (TableStatus, bool) {
	for i, n := range tableStatusNames {
		if n == s {
			return TableStatus(i), true
		}
	}
	return 0, false
}
