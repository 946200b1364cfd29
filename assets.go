package sox

import (
	"github.com/google/uuid"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
)

type AssetId string

// AssetServer owns the CPU-side assets of a scene. Render passes take the
// data by value when uploading; the server never touches the GPU.
type AssetServer struct {
	meshes   map[AssetId]*core.Mesh
	emitters map[AssetId]core.EmitterConfig
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes:   make(map[AssetId]*core.Mesh),
		emitters: make(map[AssetId]core.EmitterConfig),
	}
}

func (s *AssetServer) AddMesh(m *core.Mesh) AssetId {
	id := makeAssetId()
	s.meshes[id] = m
	return id
}

func (s *AssetServer) Mesh(id AssetId) (*core.Mesh, bool) {
	m, ok := s.meshes[id]
	return m, ok
}

func (s *AssetServer) AddEmitterConfig(cfg core.EmitterConfig) AssetId {
	id := makeAssetId()
	s.emitters[id] = cfg
	return id
}

func (s *AssetServer) EmitterConfig(id AssetId) (core.EmitterConfig, bool) {
	cfg, ok := s.emitters[id]
	return cfg, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
