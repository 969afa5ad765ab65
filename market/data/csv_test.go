package data

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pivotrader/market"
)

func TestReadCSVWithHeader(t *testing.T) {
	t.Parallel()

	in := `time,open,high,low,close,volume
2024-03-01T00:00:00Z,100,102,99,101,1000
2024-03-02T00:00:00Z,101,103,100,102,1200
`
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 102.0, bars[0].High)
	assert.Equal(t, 99.0, bars[0].Low)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 1000.0, bars[0].Volume)
}

func TestReadCSVDateOnlyAndUnix(t *testing.T) {
	t.Parallel()

	in := `2024-03-01,100,102,99,101,1000
1709510400,101,103,100,102,1200
`
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
	// 1709510400 = 2024-03-04T00:00:00Z
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), bars[1].Time)
}

func TestReadCSVRejectsBadRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "short row",
			in:   "2024-03-01,100,102,99,101\n",
			want: "need 6 columns",
		},
		{
			name: "bad number",
			in:   "2024-03-01,100,102,99,abc,1000\n",
			want: "bad number",
		},
		{
			name: "bad time",
			in:   "yesterday,100,102,99,101,1000\n",
			want: "bad time",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadCSVValidatesSeries(t *testing.T) {
	t.Parallel()

	// Second row repeats the first timestamp.
	in := `2024-03-01,100,102,99,101,1000
2024-03-01,101,103,100,102,1200
`
	_, err := ReadCSV(strings.NewReader(in))
	require.Error(t, err)

	var mbe *market.MalformedBarError
	assert.True(t, errors.As(err, &mbe))
}

func TestLoadCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV("does-not-exist.csv")
	assert.Error(t, err)
}
