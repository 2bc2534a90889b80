package enum

import "database/sql/driver"

// UserStatus gates login.
type UserStatus int

const (
	UserStatusActive UserStatus = iota
	UserStatusInactive
	UserStatusPendingVerify
)

var userStatusNames = []string{"active", "inactive", "pending_verify"}

func (s UserStatus) String() string {
	return nameOf(userStatusNames, int(s))
}

func (s UserStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *UserStatus) UnmarshalJSON(data []byte) error {
	i, err := parseName("user status", userStatusNames, data)
	if err != nil {
		return err
	}
	*s = UserStatus(i)
	return nil
}

func (s UserStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *UserStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = UserStatus(i)
	return nil
}

// ParseUserStatus maps a query-string value to a UserStatus.
func ParseUserStatus(s string) (UserStatus, bool) {
	for i, n := range userStatusNames {
		if n == s {
			return UserStatus(i), true
		}
	}
	return 0, false
}
