package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrIs(t *testing.T) {
	cases := map[string]struct {
		kind    *Error
		err     error
		wantIs  bool
	}{
		"instance of the same root error": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"wrapped root error": {
			kind:   ErrNotFound,
			err:    Wrap(ErrNotFound, "vault"),
			wantIs: true,
		},
		"deeply wrapped root error": {
			kind:   ErrNotFound,
			err:    Wrap(Wrap(ErrNotFound, "inner"), "outer"),
			wantIs: true,
		},
		"different root error": {
			kind:   ErrNotFound,
			err:    ErrUnauthorized,
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrNotFound,
			err:    stderrors.New("not found"),
			wantIs: false,
		},
		"nil error": {
			kind:   ErrNotFound,
			err:    nil,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantIs, tc.kind.Is(tc.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapPreservesABCICode(t *testing.T) {
	err := Wrapf(ErrState, "owner still alive: %d seconds left", 42)
	code, log := ABCIInfo(err, false)
	assert.Equal(t, ErrState.ABCICode(), code)
	assert.True(t, strings.Contains(log, "owner still alive"))
}

func TestABCIInfoHidesInternalDetails(t *testing.T) {
	err := Wrap(stderrors.New("sensitive db path"), "query")
	code, log := ABCIInfo(err, false)
	assert.Equal(t, internalABCICode, code)
	assert.Equal(t, internalABCILog, log)

	_, debugLog := ABCIInfo(err, true)
	assert.True(t, strings.Contains(debugLog, "sensitive db path"))
}

func TestRedact(t *testing.T) {
	if got := Redact(Wrap(ErrPanic, "runtime error")); !ErrInternal.Is(got) {
		t.Fatalf("panic must be redacted to an internal error, got %+v", got)
	}
	wrapped := Wrap(ErrNotFound, "vault")
	if got := Redact(wrapped); got != wrapped {
		t.Fatal("registered errors must pass through redaction")
	}
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("totally unexpected")
	}()
	assert.True(t, ErrPanic.Is(err))
}
