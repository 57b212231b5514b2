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

package value

import (
	"bytes"
	"testing"

	"github.com/mpkio/msgpackio/msgpack"
)

func TestEncodeParseRefRoundTrip(t *testing.T) {
	v := Map([]Entry{
		{Key: Str("name"), Val: Str("gopher")},
		{Key: Str("nums"), Val: Arr([]Value{FromNum(msgpack.Uint(1)), FromNum(msgpack.Uint(2)), Nil()})},
		{Key: Str("ok"), Val: Bool(true)},
	})

	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, n, err := ParseRef(buf.Bytes(), msgpack.NewConfig())
	if err != nil {
		t.Fatalf("ParseRef: %v", err)
	}
	if n != buf.Len() {
		t.Fatalf("consumed %d, want %d", n, buf.Len())
	}
	if !got.Clone().Equal(v) {
		t.Fatalf("round trip mismatch:\ngot  %v\nwant %v", got.Clone(), v)
	}
}

func TestParseOwnedFromOwnedDecoder(t *testing.T) {
	v := Arr([]Value{Str("a"), Bin([]byte{1, 2, 3}), Ext(9, []byte{0xff})})

	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	od := msgpack.NewOwnedDecoder()
	toks := od.Feed(buf.Bytes())

	got, n, err := ParseOwned(toks, msgpack.NewConfig())
	if err != nil {
		t.Fatalf("ParseOwned: %v", err)
	}
	if n != len(toks) {
		t.Fatalf("consumed %d tokens, want %d", n, len(toks))
	}
	if !got.Equal(v) {
		t.Fatalf("got %v, want %v", got, v)
	}
}

func TestDepthLimitRejectsOverlyNestedArrays(t *testing.T) {
	cfg := msgpack.Config{MaxDepth: 2}
	var inner Value = FromNum(msgpack.Uint(1))
	for i := 0; i < 5; i++ {
		inner = Arr([]Value{inner})
	}

	var buf bytes.Buffer
	if err := Encode(&buf, inner); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, _, err := ParseRef(buf.Bytes(), cfg)
	if err != msgpack.ErrDepthExceeded {
		t.Fatalf("got err %v, want ErrDepthExceeded", err)
	}
}

func TestAsStrRejectsInvalidUTF8ButStrBytesRecoversIt(t *testing.T) {
	bad := Value{kind: KindStr, bytes: []byte{0xff, 0xfe}}
	if _, err := bad.AsStr(); err == nil {
		t.Fatal("expected a UTF8Error")
	}
	raw, err := bad.StrBytes()
	if err != nil || len(raw) != 2 {
		t.Fatalf("StrBytes: %v, %v", raw, err)
	}
}

func TestAsRefToOwnedRoundTrip(t *testing.T) {
	v := Map([]Entry{{Key: Str("x"), Val: Arr([]Value{FromNum(msgpack.Uint(9)), Str("y")})}})
	ref := v.AsRef()
	if !ref.ToOwned().Equal(v) {
		t.Fatalf("AsRef().ToOwned() mismatch: got %v, want %v", ref.ToOwned(), v)
	}
}

func TestMapPreservesEncounterOrderAndDuplicateKeys(t *testing.T) {
	v := Map([]Entry{
		{Key: Str("k"), Val: FromNum(msgpack.Uint(1))},
		{Key: Str("k"), Val: FromNum(msgpack.Uint(2))},
	})
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, _, err := ParseRef(buf.Bytes(), msgpack.NewConfig())
	if err != nil {
		t.Fatalf("ParseRef: %v", err)
	}
	entries, err := got.Clone().AsMap()
	if err != nil {
		t.Fatalf("AsMap: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (duplicates must be preserved)", len(entries))
	}
}
