// Package glsl holds the embedded GLSL sources.
package glsl

import _ "embed"

// HeadVertex transforms the head cube.
//
//go:embed head.vert
var HeadVertex string

// HeadFragment samples one face texture with no lighting.
//
//go:embed head.frag
var HeadFragment string

// QuadVertex places a textured rectangle in window pixels.
//
//go:embed quad.vert
var QuadVertex string

// QuadFragment samples a layer texture, optionally re-encoding to sRGB.
//
//go:embed quad.frag
var QuadFragment string

// Uniforms lists the uniforms each program must expose, keyed by program
// name.
var Uniforms = map[string][]string{
	"head": {"uMVP", "uFace"},
	"quad": {"uRect", "uViewport", "uFlipY", "uImage", "uEncodeSRGB"},
}
