package enum

import "database/sql/driver"

// DishStatus controls whether a dish can be ordered.
type DishStatus int

const (
	DishStatusAvailable DishStatus = iota
	DishStatusUnavailable
)

var dishStatusNames = []string{"available", "unavailable"}

func (s DishStatus) String() string {
	return nameOf(dishStatusNames, int(s))
}

func (s DishStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *DishStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("dish status", dishStatusNames, data)
	if err != nil {
		return err
	}
	*s = DishStatus(i)
	return nil
}

func (s DishStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DishStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = DishStatus(i)
	return nil
}

// ParseDishStatus maps a query-string value to a DishStatus.
func ParseDishStatus(s string) (DishStatus, bool) {
	for i, n := range dishStatusNames {
		if n == s {
			return DishStatus(i), true
		}
	}
	return 0, false
}
