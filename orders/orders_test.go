package orders

import (
	"testing"
	"time"
)

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		seq  int64
		want string
	}{
		{1, "ORD202503070001"},
		{42, "ORD202503070042"},
		{9999, "ORD202503079999"},
		{10000, "ORD2025030710000"},
	}
	for _, tc := range cases {
		if got := FormatOrderNumber(day, tc.seq); got != tc.want {
			t.Errorf("FormatOrderNumber(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}
