package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funvec"
)

func TestCodecRoundtrip(t *testing.T) {
	tests := []struct {
		name  string
		elems []any
		names []string
	}{
		{"logical", []any{true, false, funvec.NA(funvec.Logical)}, nil},
		{"integer", []any{int64(-3), int64(0), int64(1 << 40), funvec.NA(funvec.Integer)}, nil},
		{"double", []any{1.5, -0.25, funvec.NA(funvec.Double)}, nil},
		{"character", []any{"", "hello", "naïve", funvec.NA(funvec.Character)}, nil},
		{"named", []any{1, 2, 3}, []string{"a", "", "c"}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := funvec.Combine(tt.elems...)
			require.NoError(t, err)
			if tt.names != nil {
				require.NoError(t, v.SetNames(tt.names))
			}

			blob, err := Encode(v)
			require.NoError(t, err)

			got, err := Decode(blob)
			require.NoError(t, err)

			require.Equal(t, v.Kind(), got.Kind())
			require.Equal(t, v.Len(), got.Len())
			require.Equal(t, v.Elems(), got.Elems())
			require.Equal(t, v.Names(), got.Names())
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not a payload"))
	require.ErrorIs(t, err, ErrBadPayload)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrBadPayload)

	// A valid magic over a corrupt zstd body.
	_, err = Decode(append(append([]byte(nil), payloadMagic...), 0xde, 0xad, 0xbe, 0xef))
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeRejectsTruncation(t *testing.T) {
	v, err := funvec.Combine(1, 2, 3)
	require.NoError(t, err)
	blob, err := Encode(v)
	require.NoError(t, err)

	_, err = Decode(blob[:len(blob)-1])
	require.Error(t, err)
}
