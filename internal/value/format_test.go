package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatScalars(t *testing.T) {
	data := []struct {
		In  Value
		Out string
	}{
		{Null{}, "null"},
		{Boolean(true), "true"},
		{Boolean(false), "false"},
		{Int32(0), "0"},
		{Int32(-42), "-42"},
		{Int64(1238544000000), "1238544000000"},
		{Float(3.3), "3.3"},
		{Float(10000000), "10000000"},
		{Double(4.4), "4.4"},
		{Double(-0.25), "-0.25"},
		{ByteArray("Alyssa"), `"Alyssa"`},
		{ByteArray(""), `""`},
		{ByteArray(`say "hi"`), `"say \"hi\""`},
	}

	for _, fix := range data {
		require.Equal(t, fix.Out, Format(fix.In))
	}
}

func TestFormatNested(t *testing.T) {
	data := []struct {
		In  Value
		Out string
	}{
		{List{}, "[]"},
		{List{Int32(3), Int32(9), Int32(15), Int32(20)}, "[3, 9, 15, 20]"},
		{List{List{Int32(1)}, List{}}, "[[1], []]"},
		{List{ByteArray("a"), Null{}}, `["a", null]`},
		{Group{{Name: "name", Value: ByteArray("Ben")}, {Name: "age", Value: Null{}}}, `{name: "Ben", age: null}`},
		{Group{}, "{}"},
		{
			Group{{Name: "contacts", Value: List{Group{{Name: "name", Value: ByteArray("Chris")}}}}},
			`{contacts: [{name: "Chris"}]}`,
		},
	}

	for _, fix := range data {
		require.Equal(t, fix.Out, Format(fix.In))
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	v := Group{
		{Name: "a", Value: List{Double(1.5), Null{}}},
		{Name: "b", Value: ByteArray("x")},
	}
	require.Equal(t, Format(v), Format(v))
}

func TestInt96Time(t *testing.T) {
	// 2009-04-01 00:00:00 UTC is Julian day 2454923.
	var ts Int96
	ts[8] = 0x8b
	ts[9] = 0x75
	ts[10] = 0x25
	ts[11] = 0x00

	require.Equal(t, time.Date(2009, 4, 1, 0, 0, 0, 0, time.UTC), ts.Time())
	require.Equal(t, "2009-04-01 00:00:00 +00:00", Format(ts))
}

func TestGroupLookup(t *testing.T) {
	row := Group{
		{Name: "name", Value: ByteArray("Alyssa")},
		{Name: "meta", Value: Group{
			{Name: "weight", Value: Double(1.5)},
		}},
	}

	v, ok := row.Lookup("name")
	require.True(t, ok)
	require.Equal(t, ByteArray("Alyssa"), v)

	v, ok = row.Lookup("META.Weight")
	require.True(t, ok)
	require.Equal(t, Double(1.5), v)

	_, ok = row.Lookup("meta.height")
	require.False(t, ok)

	_, ok = row.Lookup("name.sub")
	require.False(t, ok)
}
