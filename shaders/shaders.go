package shaders

import (
	_ "embed"
)

//go:embed particles.wgsl
var ParticlesWGSL string

//go:embed mesh.wgsl
var MeshWGSL string

//go:embed text.wgsl
var TextWGSL string
