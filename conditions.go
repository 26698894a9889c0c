package bazaar

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/bazaar/errors"
)

// AddressLength is the size in bytes of every address produced by hashing
// a condition.
const AddressLength = 20

// The data section is raw bytes and may contain newlines, so the regexp
// must run in single-line mode.
var conditionFormat = regexp.MustCompile(`(?s)^([a-z0-9_]{3,10})/([a-z0-9_]{3,10})/(.+)$`)

// Condition is a specially formatted byte array describing who may
// authorize an action. It is built as
//
//   sprintf("%s/%s/%s", extension, type, data)
//
// and hashed into an Address for storage and comparison.
type Condition []byte

// NewCondition composes a condition out of its three parts.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse splits a condition into the extension, type and data sections. It
// returns an error if the condition is not properly formatted.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := conditionFormat.FindSubmatch(c)
	if chunks == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition format: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address hashes the condition into the address that represents it in the
// state store.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks byte equality of two conditions.
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// Validate returns an error if this is not a well formed condition.
func (c Condition) Validate() error {
	if !conditionFormat.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition format: %X", []byte(c))
	}
	return nil
}

func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Address is a collision free, one way digest of a condition. It is the
// key under which all account state is stored.
type Address []byte

// NewAddress hashes and truncates arbitrary condition data into the
// standard address size. A nil input produces a nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// Equals checks byte equality of two addresses.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address does not have the expected
// length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length: %X", []byte(a))
	}
	return nil
}

func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// MarshalJSON encodes the address as a hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(a))
}

// UnmarshalJSON accepts a hex string representation of an address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(err, "cannot decode hex")
	}
	*a = val
	return nil
}
