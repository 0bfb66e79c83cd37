// Package skin slices a cube-head sprite sheet ("skin") into per-face textures.
//
// The sheet follows the canonical 64x64 layout where the head occupies the
// top-left 32x16 block: a row of four 8x8 side faces (right-of-viewer,
// front, left-of-viewer, back) under a pair of 8x8 caps (top, bottom).
package skin

import "fmt"

// Face identifies one side of the head cube. The order is fixed and matches
// the material order of the cube mesh: +X, -X, +Y, -Y, +Z, -Z.
type Face int

// Cube faces in mesh order.
const (
	FaceRight  Face = iota // +X
	FaceLeft               // -X
	FaceTop                // +Y
	FaceBottom             // -Y
	FaceFront              // +Z
	FaceBack               // -Z
)

// FaceCount is the number of faces on the head cube.
const FaceCount = 6

// Faces lists all faces in mesh order.
var Faces = [FaceCount]Face{FaceRight, FaceLeft, FaceTop, FaceBottom, FaceFront, FaceBack}

var faceNames = [FaceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f Face) String() string {
	if f < 0 || int(f) >= FaceCount {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// Sheet geometry.
const (
	SheetSize = 64 // logical width and height of a modern skin
	FaceSize  = 8  // texels per face edge

	// Smallest sheet that still contains every head region (legacy 64x32
	// skins qualify).
	minSheetWidth  = 32
	minSheetHeight = 16
)

// Region is a rectangular sub-area of the sheet plus optional mirroring.
type Region struct {
	X, Y  int
	W, H  int
	FlipH bool
	FlipV bool
}

// HeadLayout maps each face to its region of the canonical sheet.
//
// The sheet's "right side" strip (0,8) is the character's right, which is
// the viewer's left when facing the front, so it lands on the cube's +X
// side; likewise (16,8) lands on -X.
var HeadLayout = [FaceCount]Region{
	FaceRight:  {X: 0, Y: 8, W: FaceSize, H: FaceSize},
	FaceLeft:   {X: 16, Y: 8, W: FaceSize, H: FaceSize},
	FaceTop:    {X: 8, Y: 0, W: FaceSize, H: FaceSize},
	FaceBottom: {X: 16, Y: 0, W: FaceSize, H: FaceSize},
	FaceFront:  {X: 8, Y: 8, W: FaceSize, H: FaceSize},
	FaceBack:   {X: 24, Y: 8, W: FaceSize, H: FaceSize},
}
