// Package headtest provides an in-memory head.Device that tracks live
// resources.
package headtest

import (
	"errors"
	"sync"

	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/pkg/skin"
)

// ErrInjected is returned by a Device configured to fail.
var ErrInjected = errors.New("headtest: injected failure")

// Device counts allocations and releases. FailTextureAt makes the n-th
// NewTexture call (1-based, counted over the device's lifetime) fail.
type Device struct {
	mu sync.Mutex

	FailMesh      bool
	FailTextureAt int

	textureCalls  int
	liveTextures  int
	liveMeshes    int
	totalTextures int
	totalMeshes   int
}

type resource struct {
	dev      *Device
	texture  bool
	released bool
	Face     *skin.FaceTexture
}

func (r *resource) Release() {
	r.dev.mu.Lock()
	defer r.dev.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	if r.texture {
		r.dev.liveTextures--
	} else {
		r.dev.liveMeshes--
	}
}

// NewTexture implements head.Device.
func (d *Device) NewTexture(tex *skin.FaceTexture) (head.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textureCalls++
	if d.FailTextureAt > 0 && d.textureCalls == d.FailTextureAt {
		return nil, ErrInjected
	}
	d.liveTextures++
	d.totalTextures++
	return &resource{dev: d, texture: true, Face: tex}, nil
}

// NewMesh implements head.Device.
func (d *Device) NewMesh(vertices []head.Vertex, indices []uint16) (head.Mesh, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailMesh {
		return nil, ErrInjected
	}
	d.liveMeshes++
	d.totalMeshes++
	return &resource{dev: d}, nil
}

// Live returns the number of unreleased meshes and textures.
func (d *Device) Live() (meshes, textures int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.liveMeshes, d.liveTextures
}

// Total returns the number of meshes and textures ever allocated.
func (d *Device) Total() (meshes, textures int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalMeshes, d.totalTextures
}
