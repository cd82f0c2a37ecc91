package assets

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/rterr"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// LoadGLTF opens a .gltf/.glb document and flattens its first mesh's
// first primitive into a geomcore.Mesh (spec §6 meshes; SPEC_FULL.md
// DOMAIN STACK qmuntal/gltf). Grounded on
// mrigankad-gorenderengine/scene/gltf_loader.go's
// accessor-reading/triangle-fan shape (modeler.ReadPosition/ReadNormal/
// ReadTextureCoord/ReadIndices), simplified from that file's full
// node-hierarchy/material/texture pipeline since this spec's mesh asset
// slot only needs flattened geometry -- BSDF/transform assignment is the
// scene node's job (spec §6 "scene" tree), not the mesh loader's.
func LoadGLTF(path string) (*geomcore.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, rterr.NewAssetError(path, path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, rterr.NewAssetError(path, path, fmt.Errorf("no mesh primitives"))
	}
	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, rterr.NewAssetError(path, path, fmt.Errorf("primitive missing POSITION attribute"))
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, rterr.NewAssetError(path, path, fmt.Errorf("positions: %w", err))
	}

	mesh := &geomcore.Mesh{Positions: make([]vmath.Vec3, len(positions))}
	for i, p := range positions {
		mesh.Positions[i] = vmath.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err == nil {
			mesh.Normals = make([]vmath.Vec3, len(normals))
			for i, n := range normals {
				mesh.Normals[i] = vmath.Vec3{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])}
			}
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err == nil {
			mesh.UVs = make([]vmath.Vec2, len(uvs))
			for i, uv := range uvs {
				mesh.UVs[i] = vmath.Vec2{X: float64(uv[0]), Y: float64(uv[1])}
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, rterr.NewAssetError(path, path, fmt.Errorf("indices: %w", err))
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.Faces = append(mesh.Faces, geomcore.Face{
			I0: int32(indices[i]), I1: int32(indices[i+1]), I2: int32(indices[i+2]),
		})
	}
	return mesh, nil
}
