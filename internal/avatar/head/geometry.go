package head

import "github.com/Faultbox/skinhead/pkg/skin"

// Vertex is the cube's vertex format: position followed by texture
// coordinate. V grows downward from the face image's top row.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
}

// Cube mesh layout.
const (
	VerticesPerFace = 4
	IndicesPerFace  = 6
)

// faceCorner maps a normalized image coordinate (s right, t down) on a face
// to a point on the unit cube, using the common box-mesh UV layout. Side
// faces keep the image top on +Y; the top face puts it toward -Z and the
// bottom face toward +Z.
var faceCorner = [skin.FaceCount]func(s, t float32) [3]float32{
	skin.FaceRight:  func(s, t float32) [3]float32 { return [3]float32{0.5, 0.5 - t, 0.5 - s} },
	skin.FaceLeft:   func(s, t float32) [3]float32 { return [3]float32{-0.5, 0.5 - t, -0.5 + s} },
	skin.FaceTop:    func(s, t float32) [3]float32 { return [3]float32{-0.5 + s, 0.5, -0.5 + t} },
	skin.FaceBottom: func(s, t float32) [3]float32 { return [3]float32{-0.5 + s, -0.5, 0.5 - t} },
	skin.FaceFront:  func(s, t float32) [3]float32 { return [3]float32{-0.5 + s, 0.5 - t, 0.5} },
	skin.FaceBack:   func(s, t float32) [3]float32 { return [3]float32{0.5 - s, 0.5 - t, -0.5} },
}

// quadCorners lists a face's corners as image coordinates: top-left,
// top-right, bottom-right, bottom-left.
var quadCorners = [VerticesPerFace][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Geometry returns the unit cube centred on the origin: 24 vertices and 36
// indices. Face f owns vertices [4f, 4f+4) and indices [6f, 6f+6).
func Geometry() ([]Vertex, []uint16) {
	vertices := make([]Vertex, 0, skin.FaceCount*VerticesPerFace)
	indices := make([]uint16, 0, skin.FaceCount*IndicesPerFace)

	for _, f := range skin.Faces {
		base := uint16(len(vertices))
		for _, c := range quadCorners {
			vertices = append(vertices, Vertex{
				Position: faceCorner[f](c[0], c[1]),
				TexCoord: c,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// FaceNormal returns the outward normal of face f.
func FaceNormal(f skin.Face) [3]float32 {
	switch f {
	case skin.FaceRight:
		return [3]float32{1, 0, 0}
	case skin.FaceLeft:
		return [3]float32{-1, 0, 0}
	case skin.FaceTop:
		return [3]float32{0, 1, 0}
	case skin.FaceBottom:
		return [3]float32{0, -1, 0}
	case skin.FaceFront:
		return [3]float32{0, 0, 1}
	default:
		return [3]float32{0, 0, -1}
	}
}
