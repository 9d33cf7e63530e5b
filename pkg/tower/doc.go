// Package tower computes the Jenga tower layout for a set of assessed
// packages.
//
// # Shape
//
// The tower is a stack of layers with three blocks each. Even layers lie
// along the x axis, odd layers are rotated a quarter turn about y so their
// blocks lie along z. The bottom and top layers are plain filler; every
// middle layer holds at most one vulnerable package plus up to two safe
// ones, and extra middle layers are added when safe packages remain.
//
// # Displacement
//
// A vulnerable block is pulled out of its layer along the block's long axis
// by a distance that grows with severity (see [Offset]). Pulls alternate
// direction per axis so the tower looks picked at from both sides.
//
// # Determinism
//
// [Generate] is a pure function of its input order: the slot a vulnerable
// block occupies comes from a PCG generator seeded per layer ([SlotFor]),
// and no state survives between calls.
package tower
