package table

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type embeddedAddress struct {
	City string
}

type contact struct {
	*embeddedAddress

	Name   string
	hidden string
	Tags   map[string]string
}

type level int

func (l level) String() string {
	return [...]string{"low", "mid", "high"}[l]
}

func TestPropertyValue(t *testing.T) {
	row := contact{
		embeddedAddress: &embeddedAddress{City: "Oslo"},
		Name:            "Ada",
		hidden:          "secret",
		Tags:            map[string]string{"team": "core"},
	}

	tests := []struct {
		name    string
		row     any
		path    string
		wantOK  bool
		wantVal any
	}{
		{name: "direct field", row: row, path: "Name", wantOK: true, wantVal: "Ada"},
		{name: "pointer row", row: &row, path: "name", wantOK: true, wantVal: "Ada"},
		{name: "promoted field", row: row, path: "City", wantOK: true, wantVal: "Oslo"},
		{name: "map segment", row: row, path: "Tags.team", wantOK: true, wantVal: "core"},
		{name: "missing map key", row: row, path: "Tags.other", wantOK: false},
		{name: "unexported field", row: row, path: "hidden", wantOK: false},
		{name: "unknown field", row: row, path: "Nope", wantOK: false},
		{name: "empty path", row: row, path: "", wantOK: false},
		{name: "scalar row", row: 42, path: "X", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := PropertyValue(tt.row, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantVal != nil {
				assert.Equal(t, tt.wantVal, v.Interface())
			}
		})
	}
}

func TestPropertyValue_NilPointerOnPath(t *testing.T) {
	row := contact{Name: "Ada"}
	v, ok := PropertyValue(row, "City")
	assert.True(t, ok)
	assert.False(t, v.IsValid())
}

func TestCompareValues(t *testing.T) {
	coll := collate.New(language.English)
	val := reflect.ValueOf

	tests := []struct {
		name string
		a, b reflect.Value
		want int
	}{
		{name: "ints", a: val(1), b: val(2), want: -1},
		{name: "mixed numerics", a: val(int64(3)), b: val(2.5), want: 1},
		{name: "uints", a: val(uint(4)), b: val(uint(4)), want: 0},
		{name: "strings collate ignoring case", a: val("apple"), b: val("Banana"), want: -1},
		{name: "bools", a: val(false), b: val(true), want: -1},
		{name: "invalid first", a: reflect.Value{}, b: val(0), want: -1},
		{name: "both invalid", a: reflect.Value{}, b: reflect.Value{}, want: 0},
		{name: "stringer by text", a: val(level(2)), b: val("low"), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareValues(tt.a, tt.b, coll))
		})
	}
}
