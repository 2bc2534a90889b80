package enum

import "database/sql/driver"

// MovementDirection records which way a stock movement went.
type MovementDirection int

const (
	MovementDirectionIn MovementDirection = iota
	MovementDirectionOut
	MovementDirectionAdjust
)

var movementDirectionNames = []string{"in", "out", "adjust"}

func (s MovementDirection) String() string {
	return nameOf(movementDirectionNames, int(s))
}

func (s MovementDirection) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *MovementDirection) UnmarshalJSON(data []byte) error {
	i, err := parseName("movement direction", movementDirectionNames, data)
	if err != nil {
		return err
	}
	*s = MovementDirection(i)
	return nil
}

func (s MovementDirection) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *MovementDirection) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = MovementDirection(i)
	return nil
}

// ParseMovementDirection maps a query-string value to a MovementDirection.
func ParseMovementDirection(s string) (MovementDirection, bool) {
	for i, n := range movementDirectionNames {
		if n == s {
			return MovementDirection(i), true
		}
	}
	return 0, false
}
