package scene

import (
	"sync"

	"github.com/latentecho/backdrop/engine/mesh"
)

// Scene is an ordered collection of meshes drawn together under one camera.
// A scene has no background of its own unless one is set; the renderer's clear colour shows through.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Add appends meshes to the scene. Meshes already present are ignored.
	//
	// Parameters:
	//   - meshes: the meshes to add
	Add(meshes ...mesh.Mesh)

	// Get retrieves a mesh by its ID.
	//
	// Parameters:
	//   - id: the mesh ID
	//
	// Returns:
	//   - mesh.Mesh: the mesh, or nil if not present
	Get(id uint64) mesh.Mesh

	// Remove detaches a mesh by ID. Its geometry and materials are not disposed.
	//
	// Parameters:
	//   - id: the mesh ID
	//
	// Returns:
	//   - bool: true if a mesh was removed
	Remove(id uint64) bool

	// Children returns a snapshot of the meshes in insertion order.
	//
	// Returns:
	//   - []mesh.Mesh: the meshes
	Children() []mesh.Mesh

	// Count returns the number of meshes in the scene.
	Count() int

	// Traverse calls fn for every mesh in insertion order over a snapshot,
	// so fn may add or remove meshes.
	//
	// Parameters:
	//   - fn: visitor
	Traverse(fn func(m mesh.Mesh))

	// Clear removes every mesh without disposing GPU resources.
	Clear()

	// Background returns the scene background colour as linear RGBA and whether one is set.
	//
	// Returns:
	//   - [4]float32: the background
	//   - bool: false when the scene is transparent
	Background() ([4]float32, bool)
}

type scene struct {
	mu *sync.RWMutex

	name          string
	children      []mesh.Mesh
	background    [4]float32
	hasBackground bool
}

var _ Scene = &scene{}

// NewScene creates an empty, transparent scene.
//
// Parameters:
//   - name: identifier used in logs
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:   &sync.RWMutex{},
		name: name,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Add(meshes ...mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(meshes...)
}

func (s *scene) addLocked(meshes ...mesh.Mesh) {
	for _, m := range meshes {
		if m == nil || s.indexLocked(m.ID()) >= 0 {
			continue
		}
		s.children = append(s.children, m)
	}
}

func (s *scene) Get(id uint64) mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.children[i]
	}
	return nil
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.children = append(s.children[:i], s.children[i+1:]...)
	return true
}

func (s *scene) Children() []mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mesh.Mesh, len(s.children))
	copy(out, s.children)
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.children)
}

func (s *scene) Traverse(fn func(m mesh.Mesh)) {
	for _, m := range s.Children() {
		fn(m)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = nil
}

func (s *scene) Background() ([4]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background, s.hasBackground
}

func (s *scene) indexLocked(id uint64) int {
	for i, m := range s.children {
		if m.ID() == id {
			return i
		}
	}
	return -1
}
