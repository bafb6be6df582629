package cmds

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name            string  `parquet:"name"`
	FavoriteColor   *string `parquet:"favorite_color,optional"`
	FavoriteNumbers []int32 `parquet:"favorite_numbers,list"`
}

func strp(s string) *string {
	return &s
}

func writeUsers(t *testing.T, rows []user) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewGenericWriter[user](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func fixtureUsers(t *testing.T) string {
	return writeUsers(t, []user{
		{Name: "Alyssa", FavoriteNumbers: []int32{3, 9, 15, 20}},
		{Name: "Ben", FavoriteColor: strp("red")},
		{Name: "Chris", FavoriteColor: strp("red")},
	})
}

func TestSchemaCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runSchema(buf, fixtureUsers(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "message "))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "REQUIRED BYTE_ARRAY name (UTF8);")
	assert.Contains(t, out, "OPTIONAL BYTE_ARRAY favorite_color (UTF8);")
	assert.Contains(t, out, "group favorite_numbers (LIST)")
	assert.Contains(t, out, "REPEATED group list")
}

func TestSchemaCommandMissingFile(t *testing.T) {
	err := runSchema(new(bytes.Buffer), filepath.Join(t.TempDir(), "absent.parquet"))
	require.Error(t, err)
}

func TestCountCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runCount(buf, fixtureUsers(t), "table"))
	require.Equal(t, "count\n3\n", buf.String())
}

func TestCountCommandCSV(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runCount(buf, fixtureUsers(t), "csv"))
	require.Equal(t, "count\n3\n", buf.String())
}

func TestReadCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runRead(buf, fixtureUsers(t), nil, 0, false, "table"))

	out := buf.String()
	require.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "favorite_color")
	assert.Contains(t, out, "favorite_numbers")
	assert.Contains(t, out, `"Alyssa"`)
	assert.Contains(t, out, "[3, 9, 15, 20]")
	assert.Contains(t, out, "null")
}

func TestReadCommandCSV(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runRead(buf, fixtureUsers(t), nil, 0, false, "csv"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "name,favorite_color,favorite_numbers", lines[0])
	require.Equal(t, `"""Alyssa""",null,"[3, 9, 15, 20]"`, lines[1])
	require.Equal(t, `"""Ben""","""red""",[]`, lines[2])
}

func TestReadCommandLimitAndColumns(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runRead(buf, fixtureUsers(t), []string{"name"}, 1, true, "csv"))

	require.Equal(t, "name\n\"\"\"Alyssa\"\"\"\n", buf.String())
}

func TestReadCommandRejectsBadInput(t *testing.T) {
	path := fixtureUsers(t)

	err := runRead(new(bytes.Buffer), path, []string{"no_such_column"}, 0, false, "table")
	require.Error(t, err)

	err = runRead(new(bytes.Buffer), path, nil, -1, true, "table")
	require.Error(t, err)

	err = runRead(new(bytes.Buffer), path, nil, 0, false, "wat")
	require.Error(t, err)
}

func TestSampleCommand(t *testing.T) {
	rows := make([]user, 50)
	for i := range rows {
		rows[i] = user{Name: "u", FavoriteNumbers: []int32{int32(i)}}
	}
	path := writeUsers(t, rows)

	buf := new(bytes.Buffer)
	require.NoError(t, runSample(buf, path, nil, 5, true, 42, "csv"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6, "header plus five sampled rows")

	// Same seed, same sample.
	again := new(bytes.Buffer)
	require.NoError(t, runSample(again, path, nil, 5, true, 42, "csv"))
	require.Equal(t, buf.String(), again.String())
}

func TestSampleCommandSmallFile(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runSample(buf, fixtureUsers(t), []string{"name"}, 10, true, 1, "csv"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "three rows fit entirely into a sample of ten")
}

func TestSampleCommandRejectsNegativeSize(t *testing.T) {
	err := runSample(new(bytes.Buffer), fixtureUsers(t), nil, -3, true, 1, "table")
	require.Error(t, err)
}

func TestFrequencyCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runFrequency(buf, fixtureUsers(t), []string{"favorite_color"}, "csv"))

	require.Equal(t, "FIELD,VALUE,COUNT\nfavorite_color,red,2\nfavorite_color,null,1\n", buf.String())
}

func TestFrequencyCommandVertical(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runFrequency(buf, fixtureUsers(t), []string{"favorite_color"}, "v"))

	assert.Contains(t, buf.String(), "\nFIELD:  favorite_color\nVALUE:  red\nCOUNT:  2\n")
	assert.Contains(t, buf.String(), "\nFIELD:  favorite_color\nVALUE:  null\nCOUNT:  1\n")
}

func TestFrequencyCommandRejectsNonLeaf(t *testing.T) {
	err := runFrequency(new(bytes.Buffer), fixtureUsers(t), []string{"favorite_numbers"}, "table")
	require.Error(t, err)
}
