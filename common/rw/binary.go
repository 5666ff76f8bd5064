package rw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrShortBuffer is recorded when a read runs past the end of the data.
var ErrShortBuffer = errors.New("rw: unexpected end of data")

// ReaderWriter is a little-endian cursor over a byte buffer. Reads are
// sticky: after the first failure every read returns zero and Err reports
// the failure, so decoders can check once at the end of a section.
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
	err     error
	offset  int
}

func NewNavMeshDataBinWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewNavMeshDataBinReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

// Err returns the first read error, if any.
func (w *ReaderWriter) Err() error {
	return w.err
}

// Offset returns the number of bytes consumed or written so far.
func (w *ReaderWriter) Offset() int {
	return w.offset
}

func (w *ReaderWriter) read(n int) []byte {
	if w.err != nil {
		return nil
	}
	got, err := io.ReadFull(&w.rw, w.dataBuf[:n])
	w.offset += got
	if err != nil {
		w.err = ErrShortBuffer
		return nil
	}
	return w.dataBuf[:n]
}

func (w *ReaderWriter) ReadUInt8() uint8 {
	b := w.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (w *ReaderWriter) ReadUInt8s(value []uint8) {
	for i := range value {
		value[i] = w.ReadUInt8()
	}
}

func (w *ReaderWriter) ReadUInt16() uint16 {
	b := w.read(2)
	if b == nil {
		return 0
	}
	return w.order.Uint16(b)
}

func (w *ReaderWriter) ReadUInt16s(value []uint16) {
	for i := range value {
		value[i] = w.ReadUInt16()
	}
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	b := w.read(4)
	if b == nil {
		return 0
	}
	return w.order.Uint32(b)
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32() float32 {
	return math.Float32frombits(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32s(value []float32) {
	for i := range value {
		value[i] = w.ReadFloat32()
	}
}

func (w *ReaderWriter) WriteUInt8(v uint8) {
	w.rw.WriteByte(v)
	w.offset++
}

func (w *ReaderWriter) WriteUInt8s(value []uint8) {
	for _, v := range value {
		w.WriteUInt8(v)
	}
}

func (w *ReaderWriter) WriteUInt16(v uint16) {
	w.order.PutUint16(w.dataBuf, v)
	w.rw.Write(w.dataBuf[:2])
	w.offset += 2
}

func (w *ReaderWriter) WriteUInt16s(value []uint16) {
	for _, v := range value {
		w.WriteUInt16(v)
	}
}

func (w *ReaderWriter) WriteUInt32(v uint32) {
	w.order.PutUint32(w.dataBuf, v)
	w.rw.Write(w.dataBuf[:4])
	w.offset += 4
}

func (w *ReaderWriter) WriteInt32(v int32) {
	w.WriteUInt32(uint32(v))
}

func (w *ReaderWriter) WriteFloat32(v float32) {
	w.WriteUInt32(math.Float32bits(v))
}

func (w *ReaderWriter) WriteFloat32s(value []float32) {
	for _, v := range value {
		w.WriteFloat32(v)
	}
}

// Skip discards n bytes from the read side.
func (w *ReaderWriter) Skip(n int) {
	if w.err != nil || n <= 0 {
		return
	}
	if w.rw.Len() < n {
		w.err = ErrShortBuffer
		return
	}
	w.rw.Next(n)
	w.offset += n
}

// PadZero writes n zero bytes.
func (w *ReaderWriter) PadZero(n int) {
	for i := 0; i < n; i++ {
		w.rw.WriteByte(0)
	}
	w.offset += n
}

// Align4 pads (writer) to the next 4-byte boundary.
func (w *ReaderWriter) Align4() {
	w.PadZero(Align4(w.offset) - w.offset)
}

// SkipAlign4 skips (reader) to the next 4-byte boundary.
func (w *ReaderWriter) SkipAlign4() {
	w.Skip(Align4(w.offset) - w.offset)
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.rw.Bytes()
}

// Remaining returns the number of unread bytes.
func (w *ReaderWriter) Remaining() int {
	return w.rw.Len()
}

// Align4 rounds x up to a multiple of 4.
func Align4(x int) int { return (x + 3) & ^3 }
