package bazaar

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/iov-one/bazaar/errors"
)

// UnixTime represents a point in time as a number of seconds since the
// epoch, as provided by the ledger clock. This is the only time
// representation used in persisted state.
type UnixTime int64

// Time returns a time.Time representation of this value.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// AsUnixTime converts given time into the UnixTime representation.
// Sub-second precision is dropped.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Add returns the time shifted by the given duration. Durations shorter
// than a second are ignored as they cannot be represented.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// UnmarshalJSON supports unmarshaling both as time.Time and as a number of
// seconds.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		*t = UnixTime(n)
		return nil
	}
	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		*t = AsUnixTime(stdtime)
		return nil
	}
	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// MarshalJSON encodes this value as a number of seconds.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(t), 10)), nil
}

// Validate returns an error if this time value is invalid. The zero value
// is valid, representing an unset timestamp.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative time")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().String()
}
