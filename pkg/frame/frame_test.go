package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnKinds(t *testing.T) {
	f := newFrame("t.csv", FormatCSV,
		[]string{"id", "fare", "embarked", "boarded", "cabin"},
		[][]string{
			{"1", "7.25", "S", "1912-04-10", ""},
			{"2", "NaN", "C", "1912-04-10 09:30:00", "NA"},
			{"3", "8.05", "", "1912/04/11", ""},
		},
	)

	assert.Equal(t, []Kind{KindNumber, KindNumber, KindText, KindDatetime, KindEmpty}, f.ColumnKinds())
}

func TestHead(t *testing.T) {
	f := newFrame("t.csv", FormatCSV, []string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})

	assert.Len(t, f.Head(2), 2)
	assert.Len(t, f.Head(10), 3)
}

func TestShape_NilFrame(t *testing.T) {
	var f *Frame
	rows, cols := f.Shape()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell   string
		want   float64
		wantOK bool
	}{
		{cell: "7.25", want: 7.25, wantOK: true},
		{cell: " -3 ", want: -3, wantOK: true},
		{cell: "1e3", want: 1000, wantOK: true},
		{cell: "inf"},
		{cell: "+Inf"},
		{cell: "-Infinity"},
		{cell: "NAN"},
		{cell: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := ParseNumber(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
