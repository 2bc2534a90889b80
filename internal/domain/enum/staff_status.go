package enum

import "database/sql/driver"

// StaffStatus is the employment state of a staff member.
type StaffStatus int

const (
	StaffStatusWorking StaffStatus = iota
	StaffStatusOnLeave
	StaffStatusLeft
)

var staffStatusNames = []string{"working", "on_leave", "left"}

func (s StaffStatus) String() string {
	return nameOf(staffStatusNames, int(s))
}

func (s StaffStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *StaffStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("staff status", staffStatusNames, data)
	if err != nil {
		return err
	}
	*s = StaffStatus(i)
	return nil
}

func (s StaffStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *StaffStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = StaffStatus(i)
	return nil
}

// ParseStaffStatus maps a query-string value to a StaffStatus.
func ParseStaffStatus(s string) (StaffStatus, bool) {
	for i, n := range staffStatusNames {
		if n == s {
			return StaffStatus(i), true
		}
	}
	return 0, false
}
