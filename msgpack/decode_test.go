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
	"math/rand"
	"testing"

	"github.com/dchest/siphash"
)

func decodeAll(t *testing.T, chunks ...[]byte) []Token {
	t.Helper()
	d := NewDecoder()
	var toks []Token
	for _, c := range chunks {
		it := d.Parse(c)
		for {
			tok, ok := it.Next()
			if !ok {
				break
			}
			// copy Data since it aliases the chunk, which the test may reuse
			if tok.Data != nil {
				cp := make([]byte, len(tok.Data))
				copy(cp, tok.Data)
				tok.Data = cp
			}
			toks = append(toks, tok)
		}
	}
	return toks
}

func TestDecodeFixint(t *testing.T) {
	toks := decodeAll(t, []byte{0x05})
	if len(toks) != 1 || toks[0].Tag != TagNum || !toks[0].Num.Equal(Uint(5)) {
		t.Fatalf("got %v", toks)
	}
}

func TestDecodeNegativeFixint(t *testing.T) {
	toks := decodeAll(t, []byte{0xff}) // -1
	if len(toks) != 1 || !toks[0].Num.Equal(Int(-1)) {
		t.Fatalf("got %v", toks)
	}
}

func TestDecodeNilBoolTrue(t *testing.T) {
	toks := decodeAll(t, []byte{0xc0, 0xc2, 0xc3})
	want := []TokenTag{TagNil, TagBool, TagBool}
	for i, w := range want {
		if toks[i].Tag != w {
			t.Fatalf("token %d: got %v want %v", i, toks[i].Tag, w)
		}
	}
	if toks[1].Bool != false || toks[2].Bool != true {
		t.Fatalf("got bools %v %v", toks[1].Bool, toks[2].Bool)
	}
}

func TestDecodeFixstr(t *testing.T) {
	// fixstr "hello" : 0xa5 'h' 'e' 'l' 'l' 'o'
	toks := decodeAll(t, []byte{0xa5, 'h', 'e', 'l', 'l', 'o'})
	if len(toks) != 2 {
		t.Fatalf("want Len + Bin, got %v", toks)
	}
	if toks[0].Tag != TagLen || toks[0].LenKind != LenStr || toks[0].Len != 5 {
		t.Fatalf("got %v", toks[0])
	}
	if toks[1].Tag != TagBin || string(toks[1].Data) != "hello" {
		t.Fatalf("got %v", toks[1])
	}
}

func TestDecodeFixarrayAndFixmap(t *testing.T) {
	// [1, 2] as fixarray(2): 0x92 0x01 0x02
	toks := decodeAll(t, []byte{0x92, 0x01, 0x02})
	if toks[0].Tag != TagLen || toks[0].LenKind != LenArr || toks[0].Len != 2 {
		t.Fatalf("got %v", toks[0])
	}
	if !toks[1].Num.Equal(Uint(1)) || !toks[2].Num.Equal(Uint(2)) {
		t.Fatalf("got %v %v", toks[1], toks[2])
	}

	// {1: 2} as fixmap(1): 0x81 0x01 0x02
	toks = decodeAll(t, []byte{0x81, 0x01, 0x02})
	if toks[0].Tag != TagLen || toks[0].LenKind != LenMap || toks[0].Len != 1 {
		t.Fatalf("got %v", toks[0])
	}
}

func TestDecodeUint64BigEndian(t *testing.T) {
	// u64 marker followed by 0x0102030405060708
	toks := decodeAll(t, []byte{0xcf, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	want := uint64(0x0102030405060708)
	if !toks[0].Num.Equal(Uint(want)) {
		t.Fatalf("got %v, want %d", toks[0].Num, want)
	}
}

func TestDecodeFixext1(t *testing.T) {
	// fixext1, type 5, one payload byte 0x42
	d := NewDecoder()
	it := d.Parse([]byte{0xd4, 0x05})
	tok, ok := it.Next()
	if !ok || tok.Tag != TagLen || tok.LenKind != LenExt || tok.ExtType != 5 || tok.Len != 1 {
		t.Fatalf("got %v ok=%v", tok, ok)
	}
	it2 := d.Parse([]byte{0x42})
	tok2, ok := it2.Next()
	if !ok || tok2.Tag != TagBin || len(tok2.Data) != 1 || tok2.Data[0] != 0x42 {
		t.Fatalf("got %v ok=%v", tok2, ok)
	}
}

// TestDecodeByteAtATime feeds a multi-byte-header value one byte per
// Parse call and checks the final token matches feeding it whole, proving
// the decoder is resumable across arbitrary chunk boundaries.
func TestDecodeByteAtATime(t *testing.T) {
	whole := []byte{0xce, 0xde, 0xad, 0xbe, 0xef} // u32
	want := decodeAll(t, whole)

	d := NewDecoder()
	var got []Token
	for _, b := range whole {
		it := d.Parse([]byte{b})
		for {
			tok, ok := it.Next()
			if !ok {
				break
			}
			got = append(got, tok)
		}
	}
	if len(got) != len(want) || !got[0].Num.Equal(want[0].Num) {
		t.Fatalf("byte-at-a-time got %v, want %v", got, want)
	}
}

// TestDecodeBinSplitAcrossChunks checks a bin8 payload split over two
// Parse calls surfaces as BinCont then Bin with the correct Remaining and
// that reassembling Data from both yields the original bytes.
func TestDecodeBinSplitAcrossChunks(t *testing.T) {
	payload := []byte("hello world")
	d := NewDecoder()

	it := d.Parse([]byte{markerBin8, byte(len(payload))})
	lenTok, ok := it.Next()
	if !ok || lenTok.Tag != TagLen || lenTok.LenKind != LenBin || lenTok.Len != uint32(len(payload)) {
		t.Fatalf("got %v ok=%v", lenTok, ok)
	}

	it2 := d.Parse(payload[:5])
	cont, ok := it2.Next()
	if !ok || cont.Tag != TagBinCont || string(cont.Data) != "hello" || cont.Remaining != uint32(len(payload)-5) {
		t.Fatalf("got %v ok=%v", cont, ok)
	}

	it3 := d.Parse(payload[5:])
	final, ok := it3.Next()
	if !ok || final.Tag != TagBin || string(final.Data) != " world" {
		t.Fatalf("got %v ok=%v", final, ok)
	}

	reassembled := append(append([]byte{}, cont.Data...), final.Data...)
	if string(reassembled) != string(payload) {
		t.Fatalf("reassembled %q, want %q", reassembled, payload)
	}
}

// TestDecodeChunkInvarianceFuzz checks that splitting a fixed encoded
// stream at deterministic, seeded-random boundaries always yields the
// same token sequence as decoding it in one call. The seed comes from
// siphash over the payload so a failing case is reproducible from the
// printed seed alone.
func TestDecodeChunkInvarianceFuzz(t *testing.T) {
	whole := []byte{
		0x93,                               // fixarray(3)
		0xa3, 'f', 'o', 'o', // fixstr "foo"
		0xcd, 0x01, 0x00, // u16 256
		0xc4, 0x03, 0x01, 0x02, 0x03, // bin8 len 3
	}

	seed := siphash.Hash(0, 0, whole)
	rng := rand.New(rand.NewSource(int64(seed)))

	want := decodeAll(t, whole)

	for trial := 0; trial < 20; trial++ {
		var chunks [][]byte
		rest := whole
		for len(rest) > 0 {
			n := 1 + rng.Intn(len(rest))
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
		got := decodeAll(t, chunks...)
		if len(got) != len(want) {
			t.Fatalf("trial %d (seed %d): got %d tokens, want %d", trial, seed, len(got), len(want))
		}
		for i := range want {
			if got[i].Tag != want[i].Tag {
				t.Fatalf("trial %d (seed %d): token %d tag got %v want %v", trial, seed, i, got[i].Tag, want[i].Tag)
			}
		}
	}
}
