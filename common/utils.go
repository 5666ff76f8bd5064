package common

import "github.com/go-gl/mathgl/mgl32"

type Vec3 = mgl32.Vec3

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}
type IIndex interface {
	~int | ~int8 | ~int16 | ~int32 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// GetVert3 returns the xyz triple at index in a packed vertex array. The
// offset is computed as int so uint16 indices past 0x5555 do not wrap.
func GetVert3[T IT, T1 IIndex](verts []T, index T1) []T {
	i := int(index)
	return verts[i*3 : i*3+3]
}

// ToVec3 copies the first three components of v.
func ToVec3(v []float32) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// PutVec3 appends v to a packed vertex array.
func PutVec3(dst []float32, v Vec3) []float32 {
	return append(dst, v[0], v[1], v[2])
}

// GetVert4 returns the 4-tuple at index, as used by detail triangles.
func GetVert4[T IT, T1 IIndex](verts []T, index T1) []T {
	i := int(index)
	return verts[i*4 : i*4+4]
}
