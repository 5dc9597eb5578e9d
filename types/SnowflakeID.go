package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// SnowflakeID is a 64-bit public reference number. It is stored as a bigint and
// travels as a decimal string so JavaScript clients keep every digit.
type SnowflakeID int64

func (s SnowflakeID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

func (s SnowflakeID) IsZero() bool {
	return s == 0
}

func (s SnowflakeID) Value() (driver.Value, error) {
	return int64(s), nil
}

func (SnowflakeID) GormDataType() string {
	return "bigint"
}

func (s *SnowflakeID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = 0
		return nil
	case int64:
		*s = SnowflakeID(v)
		return nil
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("cannot convert %v to SnowflakeID", value)
	}
}

func (s SnowflakeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts both the string form and a bare number.
func (s *SnowflakeID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		return s.parse(str)
	}

	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = SnowflakeID(num)
		return nil
	}

	return fmt.Errorf("invalid snowflake ID format")
}

func (s *SnowflakeID) parse(str string) error {
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake ID string: %w", err)
	}
	*s = SnowflakeID(val)
	return nil
}

// ParseSnowflakeID parses the decimal string form.
func ParseSnowflakeID(str string) (SnowflakeID, error) {
	var id SnowflakeID
	err := id.parse(str)
	return id, err
}
