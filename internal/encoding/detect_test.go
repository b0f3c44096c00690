package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/rentledger/internal/encoding"
)

const sheet = "bill_id;charge;amount;note\n;Café cleaning;500;ভাড়া\n"

func TestNewUTF8Reader(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(sheet))
	require.NoError(t, err)

	const latinSheet = "bill_id;charge;amount\n;Café cleaning;500\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(latinSheet))
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		wantCharset encoding.Charset
		want        string
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte(sheet),
			wantCharset: encoding.UTF8,
			want:        sheet,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, sheet...),
			wantCharset: encoding.UTF8BOM,
			want:        sheet,
		},
		{
			name:        "UTF16LE",
			input:       utf16le,
			wantCharset: encoding.UTF16LE,
			want:        sheet,
		},
		{
			// chardet may label short Latin text as either single-byte set.
			name:  "Windows1252",
			input: latin1,
			want:  latinSheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, encoding.Detect(tt.input))
			}

			r, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
