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

import "testing"

func TestOwnedDecoderReassemblesSplitBin(t *testing.T) {
	payload := []byte("reassemble me")
	o := NewOwnedDecoder()

	toks := o.Feed([]byte{markerBin8, byte(len(payload))})
	if len(toks) != 0 {
		t.Fatalf("expected no tokens yet, got %v", toks)
	}

	toks = o.Feed(payload[:4])
	if len(toks) != 0 {
		t.Fatalf("expected no tokens mid-payload, got %v", toks)
	}

	toks = o.Feed(payload[4:])
	if len(toks) != 1 || toks[0].Tag != OwnedBin {
		t.Fatalf("got %v", toks)
	}
	if string(toks[0].Bytes) != string(payload) {
		t.Fatalf("got %q, want %q", toks[0].Bytes, payload)
	}
}

func TestOwnedDecoderArrMapSurfaceLenOnly(t *testing.T) {
	o := NewOwnedDecoder()
	toks := o.Feed([]byte{0x92, 0x01, 0x02}) // fixarray(2) of [1, 2]
	if len(toks) != 3 {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Tag != OwnedArrLen || toks[0].Len != 2 {
		t.Fatalf("got %v", toks[0])
	}
	if toks[1].Tag != OwnedNum || !toks[1].Num.Equal(Uint(1)) {
		t.Fatalf("got %v", toks[1])
	}
}

func TestOwnedDecoderExtCarriesType(t *testing.T) {
	o := NewOwnedDecoder()
	toks := o.Feed([]byte{markerFixext1, 7, 0x99})
	if len(toks) != 1 || toks[0].Tag != OwnedExt || toks[0].ExtType != 7 {
		t.Fatalf("got %v", toks)
	}
	if len(toks[0].Bytes) != 1 || toks[0].Bytes[0] != 0x99 {
		t.Fatalf("got %v", toks[0].Bytes)
	}
}
