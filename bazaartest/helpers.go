package bazaartest

import (
	"encoding/binary"
	"sync/atomic"

	weave "github.com/iov-one/bazaar"
)

var condCounter uint64

// NewCondition returns a new, unique condition. Each call returns a
// different value.
func NewCondition() weave.Condition {
	n := atomic.AddUint64(&condCounter, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return weave.NewCondition("test", "mock", data)
}
