package tileid

import "fmt"

// ID is a Web-Mercator tile coordinate. Total order is (Z, X, Y)
// ascending.
type ID struct {
	Z uint8
	X int32
	Y int32
}

// String renders the canonical "{z}/{x}/{y}" form, used as the tile
// source's singleflight key and in error messages.
func (id ID) String() string {
	return fmt.Sprintf("%d/%d/%d", id.Z, id.X, id.Y)
}

// Less implements the (Z, X, Y) ascending total order.
func (id ID) Less(other ID) bool {
	if id.Z != other.Z {
		return id.Z < other.Z
	}
	if id.X != other.X {
		return id.X < other.X
	}
	return id.Y < other.Y
}

// Normalize wraps X into [0, 2^Z) and reports whether Y is within the
// valid [0, 2^Z) range. Longitude wraps around the antimeridian; latitude
// does not.
func (id ID) Normalize() (ID, bool) {
	n := int32(1) << id.Z
	x := id.X % n
	if x < 0 {
		x += n
	}
	if id.Y < 0 || id.Y >= n {
		return ID{}, false
	}
	return ID{Z: id.Z, X: x, Y: id.Y}, true
}

// Parent returns the tile one zoom level up that covers id, and false if
// id is already at zoom 0.
func (id ID) Parent() (ID, bool) {
	if id.Z == 0 {
		return ID{}, false
	}
	return ID{Z: id.Z - 1, X: id.X >> 1, Y: id.Y >> 1}, true
}

// Children returns the four tiles one zoom level down covered by id.
func (id ID) Children() [4]ID {
	z := id.Z + 1
	x := id.X << 1
	y := id.Y << 1
	return [4]ID{
		{Z: z, X: x, Y: y},
		{Z: z, X: x + 1, Y: y},
		{Z: z, X: x, Y: y + 1},
		{Z: z, X: x + 1, Y: y + 1},
	}
}

// AncestorAt returns the ancestor of id at zoom z, and false if z > id.Z.
func (id ID) AncestorAt(z uint8) (ID, bool) {
	if z > id.Z {
		return ID{}, false
	}
	shift := id.Z - z
	return ID{Z: z, X: id.X >> shift, Y: id.Y >> shift}, true
}

// Covers reports whether id, as an ancestor tile, spans the area of other.
func (id ID) Covers(other ID) bool {
	anc, ok := other.AncestorAt(id.Z)
	if !ok {
		return false
	}
	return anc == id
}
