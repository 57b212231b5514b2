// Copyright (C) 2024 msgpackio authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package msgpack

import (
	"testing"

	"github.com/mpkio/msgpackio/date"
)

func TestTimestampRoundTripLayouts(t *testing.T) {
	cases := []struct {
		name string
		t    date.Time
		len  int
	}{
		{"seconds only, 32-bit layout", date.Unix(1700000000, 0), 4},
		{"with nanoseconds, 64-bit layout", date.Unix(1700000000, 123456789), 8},
		{"negative seconds, 96-bit layout", date.Unix(-1700000000, 5), 12},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			enc := EncodeTimestamp(c.t)
			if len(enc) != c.len {
				t.Fatalf("got %d byte payload, want %d", len(enc), c.len)
			}
			got, err := DecodeTimestamp(enc)
			if err != nil {
				t.Fatalf("DecodeTimestamp: %v", err)
			}
			if got.Unix() != c.t.Unix() || got.Nanosecond() != c.t.Nanosecond() {
				t.Fatalf("got %v/%d, want %v/%d", got.Unix(), got.Nanosecond(), c.t.Unix(), c.t.Nanosecond())
			}
		})
	}
}

func TestDecodeTimestampRejectsBadLength(t *testing.T) {
	if _, err := DecodeTimestamp([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a 3-byte payload")
	}
}
