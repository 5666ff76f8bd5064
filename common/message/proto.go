// Package message writes and walks protobuf wire-format messages field by
// field, for types that have no generated .pb.go counterpart.
package message

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) Uint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *Encoder) Sint(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeZigZag(v))
}

func (e *Encoder) Float(num protowire.Number, v float32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.Fixed32Type)
	e.buf = protowire.AppendFixed32(e.buf, math.Float32bits(v))
}

// Floats writes a packed repeated float field.
func (e *Encoder) Floats(num protowire.Number, vs []float32) {
	if len(vs) == 0 {
		return
	}
	packed := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, packed)
}

// Uints writes a packed repeated varint field.
func (e *Encoder) Uints(num protowire.Number, vs []uint64) {
	if len(vs) == 0 {
		return
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, v)
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, packed)
}

// RawBytes writes a length-delimited bytes field.
func (e *Encoder) RawBytes(num protowire.Number, b []byte) {
	if len(b) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

// Message writes a nested message built by fn. Empty messages are still
// emitted so repeated entries keep their positions.
func (e *Encoder) Message(num protowire.Number, fn func(*Encoder)) {
	sub := &Encoder{}
	fn(sub)
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, sub.buf)
}

// Field is one decoded field. Raw holds the varint value for varint
// fields, the 32-bit pattern for fixed32 fields and the payload for
// length-delimited fields.
type Field struct {
	Num   protowire.Number
	Type  protowire.Type
	Value uint64
	Raw   []byte
}

func (f Field) Float() float32 { return math.Float32frombits(uint32(f.Value)) }

func (f Field) Sint() int64 { return protowire.DecodeZigZag(f.Value) }

func (f Field) Floats() ([]float32, error) {
	if f.Type != protowire.BytesType || len(f.Raw)%4 != 0 {
		return nil, fmt.Errorf("field %d: not a packed float array", f.Num)
	}
	out := make([]float32, 0, len(f.Raw)/4)
	b := f.Raw
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, math.Float32frombits(v))
		b = b[n:]
	}
	return out, nil
}

func (f Field) Uints() ([]uint64, error) {
	if f.Type != protowire.BytesType {
		return nil, fmt.Errorf("field %d: not a packed varint array", f.Num)
	}
	var out []uint64
	b := f.Raw
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, v)
		b = b[n:]
	}
	return out, nil
}

// Walk calls visit for every top-level field of data in wire order.
// Unknown wire types (groups, fixed64) are skipped.
func Walk(data []byte, visit func(Field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.Value, n = protowire.ConsumeVarint(data)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(data)
			f.Value = uint64(v)
		case protowire.BytesType:
			f.Raw, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		if err := visit(f); err != nil {
			return err
		}
	}
	return nil
}
