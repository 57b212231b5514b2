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
	"fmt"

	"github.com/mpkio/msgpackio/msgpack"
)

// ParseRef decodes one complete value tree from data, which must hold the
// entire encoded value contiguously (no resumption across calls): this is
// the zero-copy path, for producers that can hand back a whole buffer at
// once (see msgpack/ioadapter.SliceProducer and MmapProducer). It returns
// the tree and the number of bytes of data it consumed.
func ParseRef(data []byte, cfg msgpack.Config) (ValueRef, int, error) {
	dec := msgpack.NewDecoder()
	it := dec.Parse(data)
	p := &refParser{it: it, cfg: cfg}
	v, err := p.parseOne(0)
	if err != nil {
		return ValueRef{}, 0, err
	}
	p.consumed = it.Consumed()
	return v, p.consumed, nil
}

type refParser struct {
	it       *msgpack.TokenIter
	cfg      msgpack.Config
	consumed int
}

func (p *refParser) next() (msgpack.Token, error) {
	tok, ok := p.it.Next()
	if !ok {
		return msgpack.Token{}, &msgpack.DecodeError{Expected: "a marker", Got: "end of input", Func: "ParseRef"}
	}
	return tok, nil
}

func (p *refParser) parseOne(depth int) (ValueRef, error) {
	if depth > p.cfg.MaxDepth {
		return ValueRef{}, msgpack.ErrDepthExceeded
	}
	tok, err := p.next()
	if err != nil {
		return ValueRef{}, err
	}
	switch tok.Tag {
	case msgpack.TagNil:
		return ValueRef{kind: KindNil}, nil
	case msgpack.TagBool:
		return ValueRef{kind: KindBool, b: tok.Bool}, nil
	case msgpack.TagNum:
		return ValueRef{kind: KindNum, n: tok.Num}, nil
	case msgpack.TagLen:
		return p.parseLen(tok, depth)
	default:
		return ValueRef{}, &msgpack.DecodeError{Expected: "a value marker", Got: tok.String(), Func: "ParseRef"}
	}
}

func (p *refParser) parseLen(tok msgpack.Token, depth int) (ValueRef, error) {
	switch tok.LenKind {
	case msgpack.LenArr:
		elems := make([]ValueRef, tok.Len)
		for i := range elems {
			e, err := p.parseOne(depth + 1)
			if err != nil {
				return ValueRef{}, err
			}
			elems[i] = e
		}
		return ValueRef{kind: KindArr, arr: elems}, nil
	case msgpack.LenMap:
		entries := make([]EntryRef, tok.Len)
		for i := range entries {
			k, err := p.parseOne(depth + 1)
			if err != nil {
				return ValueRef{}, err
			}
			v, err := p.parseOne(depth + 1)
			if err != nil {
				return ValueRef{}, err
			}
			entries[i] = EntryRef{Key: k, Val: v}
		}
		return ValueRef{kind: KindMap, entries: entries}, nil
	default: // LenBin, LenStr, LenExt: payload follows as BinCont*/Bin
		data, err := p.collectPayload(tok.Len)
		if err != nil {
			return ValueRef{}, err
		}
		switch tok.LenKind {
		case msgpack.LenStr:
			return ValueRef{kind: KindStr, bytes: data}, nil
		case msgpack.LenExt:
			return ValueRef{kind: KindExt, extType: tok.ExtType, bytes: data}, nil
		default:
			return ValueRef{kind: KindBin, bytes: data}, nil
		}
	}
}

// collectPayload gathers a bin/str/ext payload of n bytes. When it arrives
// as a single Bin token the result aliases the input directly; a payload
// split across BinCont tokens must be copied into a fresh buffer, since
// the pieces are not contiguous in the caller's slice.
func (p *refParser) collectPayload(n uint32) ([]byte, error) {
	if n == 0 {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Tag != msgpack.TagBin {
			return nil, &msgpack.DecodeError{Expected: "Bin", Got: tok.String(), Func: "ParseRef"}
		}
		return tok.Data, nil
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Tag == msgpack.TagBin {
		return tok.Data, nil
	}
	if tok.Tag != msgpack.TagBinCont {
		return nil, &msgpack.DecodeError{Expected: "Bin or BinCont", Got: tok.String(), Func: "ParseRef"}
	}
	buf := make([]byte, 0, n)
	buf = append(buf, tok.Data...)
	for {
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		buf = append(buf, tok.Data...)
		if tok.Tag == msgpack.TagBin {
			return buf, nil
		}
	}
}

// ParseOwned builds a tree from a flat slice of OwnedToken, such as one
// returned by msgpack.OwnedDecoder.Feed. Unlike ParseRef it never aliases
// a caller buffer: every payload is already owned by the tokens
// themselves. It returns the tree and the number of tokens consumed.
func ParseOwned(toks []msgpack.OwnedToken, cfg msgpack.Config) (Value, int, error) {
	p := &ownedParser{toks: toks, cfg: cfg}
	v, err := p.parseOne(0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, p.pos, nil
}

type ownedParser struct {
	toks []msgpack.OwnedToken
	pos  int
	cfg  msgpack.Config
}

func (p *ownedParser) next() (msgpack.OwnedToken, error) {
	if p.pos >= len(p.toks) {
		return msgpack.OwnedToken{}, &msgpack.DecodeError{Expected: "a token", Got: "end of stream", Func: "ParseOwned"}
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, nil
}

func (p *ownedParser) parseOne(depth int) (Value, error) {
	if depth > p.cfg.MaxDepth {
		return Value{}, msgpack.ErrDepthExceeded
	}
	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}
	switch tok.Tag {
	case msgpack.OwnedNil:
		return Nil(), nil
	case msgpack.OwnedBool:
		return Bool(tok.Bool), nil
	case msgpack.OwnedNum:
		return FromNum(tok.Num), nil
	case msgpack.OwnedBin:
		return Bin(tok.Bytes), nil
	case msgpack.OwnedStr:
		return Value{kind: KindStr, bytes: tok.Bytes}, nil
	case msgpack.OwnedExt:
		return Ext(tok.ExtType, tok.Bytes), nil
	case msgpack.OwnedArrLen:
		elems := make([]Value, tok.Len)
		for i := range elems {
			e, err := p.parseOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			elems[i] = e
		}
		return Arr(elems), nil
	case msgpack.OwnedMapLen:
		entries := make([]Entry, tok.Len)
		for i := range entries {
			k, err := p.parseOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			v, err := p.parseOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			entries[i] = Entry{Key: k, Val: v}
		}
		return Map(entries), nil
	default:
		return Value{}, fmt.Errorf("msgpack/value: unexpected owned token tag %d", tok.Tag)
	}
}
