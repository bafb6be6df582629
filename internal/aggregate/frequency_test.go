package aggregate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraugster/xpq/internal/assemble"
	"github.com/fraugster/xpq/internal/schema"
	"github.com/fraugster/xpq/internal/value"
)

func userSchema(t *testing.T) *schema.Node {
	t.Helper()
	root, err := schema.Parse(`message user {
  REQUIRED BYTE_ARRAY name;
  OPTIONAL BYTE_ARRAY favorite_color;
  REQUIRED group favorite_numbers (LIST) {
    REPEATED INT32 array;
  }
}
`)
	require.NoError(t, err)
	return root
}

func userRow(name string, color value.Value, numbers ...int32) value.Group {
	list := value.List{}
	for _, n := range numbers {
		list = append(list, value.Int32(n))
	}
	return value.Group{
		{Name: "name", Value: value.ByteArray(name)},
		{Name: "favorite_color", Value: color},
		{Name: "favorite_numbers", Value: list},
	}
}

func TestFrequencyCountsNullsAndValues(t *testing.T) {
	src := &sliceRows{rows: []value.Group{
		userRow("Alyssa", value.Null{}, 3, 9, 15, 20),
		userRow("Ben", value.ByteArray("red")),
	}}

	entries, err := Frequency(src, userSchema(t), "favorite_color")
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Value: "null", Count: 1},
		{Value: "red", Count: 1},
	}, entries)
}

func TestFrequencyOrdersByCountThenValue(t *testing.T) {
	src := &sliceRows{rows: []value.Group{
		userRow("b", value.ByteArray("blue")),
		userRow("a", value.ByteArray("green")),
		userRow("c", value.ByteArray("green")),
		userRow("d", value.ByteArray("blue")),
		userRow("e", value.ByteArray("green")),
	}}

	entries, err := Frequency(src, userSchema(t), "favorite_color")
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Value: "green", Count: 3},
		{Value: "blue", Count: 2},
	}, entries)
}

func TestFrequencyFansOutOverRepeatedValues(t *testing.T) {
	src := &sliceRows{rows: []value.Group{
		userRow("a", value.Null{}, 1, 1, 2),
		userRow("b", value.Null{}, 2),
	}}

	entries, err := Frequency(src, userSchema(t), "favorite_numbers.array")
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Value: "1", Count: 2},
		{Value: "2", Count: 2},
	}, entries)

	var total int64
	for _, e := range entries {
		total += e.Count
	}
	require.Equal(t, int64(4), total)
}

func TestFrequencyMatchesColumnsCaseInsensitively(t *testing.T) {
	src := &sliceRows{rows: []value.Group{
		userRow("a", value.ByteArray("red")),
	}}

	entries, err := Frequency(src, userSchema(t), "Favorite_Color")
	require.NoError(t, err)
	require.Equal(t, []Entry{{Value: "red", Count: 1}}, entries)
}

func TestFrequencyRejectsInvalidColumns(t *testing.T) {
	root := userSchema(t)
	for _, path := range []string{
		"nope",
		"favorite_numbers",
		"name.sub",
		"favorite_numbers.array.deeper",
	} {
		_, err := Frequency(&sliceRows{}, root, path)
		require.Error(t, err, "path %q", path)
		assert.IsType(t, &InvalidColumnError{}, err, "path %q", path)
	}
}

type colorUser struct {
	Name          string  `parquet:"name"`
	FavoriteColor *string `parquet:"favorite_color,optional"`
}

func writeColors(t *testing.T, colors []*string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "colors.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewGenericWriter[colorUser](f)
	for i, c := range colors {
		_, err := w.Write([]colorUser{{Name: "u", FavoriteColor: c}})
		require.NoError(t, err)
		if (i+1)%3 == 0 {
			require.NoError(t, w.Flush())
		}
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestFrequencyFileMatchesSequentialPass(t *testing.T) {
	red, blue := "red", "blue"
	path := writeColors(t, []*string{&red, nil, &blue, &red, nil, &red, &blue, nil})

	f, err := assemble.Open(path)
	require.NoError(t, err)
	defer f.Close()

	want := []Entry{
		{Value: "null", Count: 3},
		{Value: "red", Count: 3},
		{Value: "blue", Count: 2},
	}

	parallel, err := FrequencyFile(f, []string{"favorite_color", "name"})
	require.NoError(t, err)
	require.Len(t, parallel, 2)
	require.Equal(t, want, parallel[0])
	require.Equal(t, []Entry{{Value: "u", Count: 8}}, parallel[1])

	r := f.Rows()
	defer r.Close()
	sequential, err := Frequency(r, f.Schema(), "favorite_color")
	require.NoError(t, err)
	require.Equal(t, want, sequential)
}
