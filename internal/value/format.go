package value

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"
)

// Format renders a value to its canonical display string: null stays
// unquoted, byte arrays are double-quoted with inner quotes escaped, numbers
// use the shortest decimal representation, lists are bracketed and
// comma-joined, and nested groups are rendered as brace-delimited field
// lists. Formatting is pure; it never fails for any value this package can
// produce.
func Format(v Value) string {
	sb := new(strings.Builder)
	format(sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case Null:
		sb.WriteString("null")
	case Boolean:
		sb.WriteString(strconv.FormatBool(bool(t)))
	case Int32:
		sb.WriteString(strconv.FormatInt(int64(t), 10))
	case Int64:
		sb.WriteString(strconv.FormatInt(int64(t), 10))
	case Int96:
		sb.WriteString(t.Time().Format("2006-01-02 15:04:05 -07:00"))
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(t), 'f', -1, 32))
	case Double:
		sb.WriteString(strconv.FormatFloat(float64(t), 'f', -1, 64))
	case ByteArray:
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(string(t), `"`, `\"`))
		sb.WriteByte('"')
	case List:
		sb.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, e)
		}
		sb.WriteByte(']')
	case Group:
		sb.WriteByte('{')
		for i, f := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			format(sb, f.Value)
		}
		sb.WriteByte('}')
	}
}

const (
	julianUnixEpoch = 2440588
	secondsPerDay   = 24 * 60 * 60
)

// Time decodes the INT96 timestamp layout: nanoseconds within the day in the
// first eight bytes, the Julian day number in the last four, both
// little-endian. The result is in UTC so that rendering does not depend on
// the machine's time zone.
func (t Int96) Time() time.Time {
	nanos := binary.LittleEndian.Uint64(t[:8])
	days := binary.LittleEndian.Uint32(t[8:])

	sec := (int64(days) - julianUnixEpoch) * secondsPerDay
	return time.Unix(sec, int64(nanos)).UTC()
}
