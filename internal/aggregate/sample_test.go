package aggregate

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraugster/xpq/internal/value"
)

type sliceRows struct {
	rows []value.Group
	pos  int
}

func (s *sliceRows) Read() (value.Group, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func idRow(i int) value.Group {
	return value.Group{{Name: "id", Value: value.Int32(int32(i))}}
}

func idRows(n int) []value.Group {
	rows := make([]value.Group, n)
	for i := range rows {
		rows[i] = idRow(i)
	}
	return rows
}

func rowID(t *testing.T, row value.Group) int32 {
	t.Helper()
	v, ok := row.Get("id")
	require.True(t, ok)
	return int32(v.(value.Int32))
}

func TestNewReservoirRejectsNegativeSize(t *testing.T) {
	_, err := NewReservoir(-1, 0)
	require.Error(t, err)
	require.IsType(t, &InvalidSampleSizeError{}, err)
}

func TestReservoirKeepsEverythingBelowCapacity(t *testing.T) {
	res, err := NewReservoir(10, 42)
	require.NoError(t, err)

	rows := idRows(5)
	for _, row := range rows {
		res.Add(row)
	}

	require.Equal(t, rows, res.Rows())
	require.Equal(t, int64(5), res.Seen())
}

func TestReservoirZeroSize(t *testing.T) {
	res, err := NewReservoir(0, 42)
	require.NoError(t, err)

	for _, row := range idRows(100) {
		res.Add(row)
	}

	require.Empty(t, res.Rows())
	require.Equal(t, int64(100), res.Seen())
}

func TestReservoirBoundsSampleSize(t *testing.T) {
	res, err := NewReservoir(10, 7)
	require.NoError(t, err)

	for _, row := range idRows(1000) {
		res.Add(row)
	}

	sample := res.Rows()
	require.Len(t, sample, 10)

	seen := map[int32]bool{}
	for _, row := range sample {
		id := rowID(t, row)
		require.GreaterOrEqual(t, id, int32(0))
		require.Less(t, id, int32(1000))
		require.False(t, seen[id], "row %d sampled twice", id)
		seen[id] = true
	}
}

func TestReservoirIsSeedDeterministic(t *testing.T) {
	draw := func(seed int64) []value.Group {
		res, err := NewReservoir(10, seed)
		require.NoError(t, err)
		for _, row := range idRows(500) {
			res.Add(row)
		}
		return res.Rows()
	}

	require.Equal(t, draw(99), draw(99))
}

func TestReservoirIsRoughlyUniform(t *testing.T) {
	// One row out of ten, drawn across many seeds. Each row should be
	// picked about a tenth of the time; the lower half should account for
	// about half of all draws.
	lower := 0
	const draws = 400
	for seed := int64(0); seed < draws; seed++ {
		res, err := NewReservoir(1, seed)
		require.NoError(t, err)
		for _, row := range idRows(10) {
			res.Add(row)
		}
		require.Len(t, res.Rows(), 1)
		if rowID(t, res.Rows()[0]) < 5 {
			lower++
		}
	}

	require.Greater(t, lower, draws/4)
	require.Less(t, lower, 3*draws/4)
}

func TestSampleDrainsSource(t *testing.T) {
	sample, err := Sample(&sliceRows{rows: idRows(20)}, 5, 1)
	require.NoError(t, err)
	require.Len(t, sample, 5)

	sample, err = Sample(&sliceRows{rows: idRows(3)}, 5, 1)
	require.NoError(t, err)
	require.Len(t, sample, 3)

	_, err = Sample(&sliceRows{}, -2, 1)
	require.Error(t, err)
}
