package bazaar_test

import (
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/stretchr/testify/assert"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond     weave.Condition
		wantErr  *errors.Error
		wantExt  string
		wantTyp  string
		wantData []byte
	}{
		"simple": {
			cond:     weave.NewCondition("sigs", "ed25519", []byte("foo")),
			wantExt:  "sigs",
			wantTyp:  "ed25519",
			wantData: []byte("foo"),
		},
		"data with newline bytes": {
			cond:     weave.NewCondition("sigs", "ed25519", []byte{0xa, 0x0, 0xa, 0xff}),
			wantExt:  "sigs",
			wantTyp:  "ed25519",
			wantData: []byte{0xa, 0x0, 0xa, 0xff},
		},
		"data starting with a newline byte": {
			cond:     weave.NewCondition("multi", "usage", append([]byte{0xa}, []byte("key")...)),
			wantExt:  "multi",
			wantTyp:  "usage",
			wantData: append([]byte{0xa}, []byte("key")...),
		},
		"missing data": {
			cond:    weave.Condition("sigs/ed25519/"),
			wantErr: errors.ErrInput,
		},
		"missing type": {
			cond:    weave.Condition("sigs/foo"),
			wantErr: errors.ErrInput,
		},
		"extension too short": {
			cond:    weave.NewCondition("ab", "ed25519", []byte("foo")),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, data, err := tc.cond.Parse()
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
				assert.Error(t, tc.cond.Validate())
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, tc.cond.Validate())
			assert.Equal(t, tc.wantExt, ext)
			assert.Equal(t, tc.wantTyp, typ)
			assert.Equal(t, tc.wantData, data)
		})
	}
}

func TestConditionAddressStable(t *testing.T) {
	// the address of a condition must not depend on how the data bytes
	// happen to look
	a := weave.NewCondition("sigs", "ed25519", []byte{0xa, 0xb, 0xc})
	b := weave.NewCondition("sigs", "ed25519", []byte{0xa, 0xb, 0xc})
	assert.Equal(t, a.Address(), b.Address())
	assert.NoError(t, a.Address().Validate())
}
