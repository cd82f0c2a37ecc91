package assets

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/rterr"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// plyProperty is one "property <type> <name>" (or "property list ...")
// header line, adapted from the teacher's loaders.PLYProperty.
type plyProperty struct {
	name     string
	listType string // non-empty for "property list <count-type> <type> <name>"
	dataType string
}

// LoadPLY parses an ASCII or binary_little_endian PLY file (spec §6
// meshes) into a geomcore.Mesh, reading the standard x/y/z, nx/ny/nz,
// and s/t (or u/v) vertex properties and the "vertex_indices" face list.
// Grounded on the teacher's loaders/ply.go header-property model
// (PLYHeader/PLYProperty), rewritten against the smaller property set
// this spec's meshes need instead of porting the teacher's full
// confidence/intensity/custom-property surface.
func LoadPLY(path string) (*geomcore.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rterr.NewAssetError(path, path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	format, vertexCount, faceCount, vertexProps, err := parsePLYHeader(r)
	if err != nil {
		return nil, rterr.NewAssetError(path, path, err)
	}

	xi, yi, zi := propIndex(vertexProps, "x"), propIndex(vertexProps, "y"), propIndex(vertexProps, "z")
	if xi < 0 || yi < 0 || zi < 0 {
		return nil, rterr.NewAssetError(path, path, fmt.Errorf("missing x/y/z vertex properties"))
	}
	nxi, nyi, nzi := propIndex(vertexProps, "nx"), propIndex(vertexProps, "ny"), propIndex(vertexProps, "nz")
	hasNormals := nxi >= 0 && nyi >= 0 && nzi >= 0
	ui, vi := propIndex(vertexProps, "u"), propIndex(vertexProps, "v")
	if ui < 0 {
		ui, vi = propIndex(vertexProps, "s"), propIndex(vertexProps, "t")
	}
	hasUVs := ui >= 0 && vi >= 0

	mesh := &geomcore.Mesh{
		Positions: make([]vmath.Vec3, vertexCount),
	}
	if hasNormals {
		mesh.Normals = make([]vmath.Vec3, vertexCount)
	}
	if hasUVs {
		mesh.UVs = make([]vmath.Vec2, vertexCount)
	}

	switch format {
	case "ascii":
		if err := readPLYAsciiVertices(r, vertexCount, vertexProps, xi, yi, zi, nxi, nyi, nzi, ui, vi, mesh); err != nil {
			return nil, rterr.NewAssetError(path, path, err)
		}
		if err := readPLYAsciiFaces(r, faceCount, mesh); err != nil {
			return nil, rterr.NewAssetError(path, path, err)
		}
	case "binary_little_endian":
		if err := readPLYBinaryVertices(r, vertexCount, vertexProps, xi, yi, zi, nxi, nyi, nzi, ui, vi, mesh); err != nil {
			return nil, rterr.NewAssetError(path, path, err)
		}
		if err := readPLYBinaryFaces(r, faceCount, mesh); err != nil {
			return nil, rterr.NewAssetError(path, path, err)
		}
	default:
		return nil, rterr.NewAssetError(path, path, fmt.Errorf("unsupported PLY format %q", format))
	}
	return mesh, nil
}

func propIndex(props []plyProperty, name string) int {
	for i, p := range props {
		if p.name == name {
			return i
		}
	}
	return -1
}

func parsePLYHeader(r *bufio.Reader) (format string, vertexCount, faceCount int, vertexProps []plyProperty, err error) {
	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "ply" {
		return "", 0, 0, nil, fmt.Errorf("not a PLY file")
	}
	var currentElement string
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return "", 0, 0, nil, fmt.Errorf("unexpected EOF in header: %w", err)
		}
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			format = fields[1]
		case "element":
			currentElement = fields[1]
			count, _ := strconv.Atoi(fields[2])
			if currentElement == "vertex" {
				vertexCount = count
			} else if currentElement == "face" {
				faceCount = count
			}
		case "property":
			if currentElement != "vertex" {
				continue
			}
			if fields[1] == "list" {
				continue // face property lines handled structurally below
			}
			vertexProps = append(vertexProps, plyProperty{dataType: fields[1], name: fields[2]})
		case "end_header":
			return format, vertexCount, faceCount, vertexProps, nil
		}
	}
}

func readPLYAsciiVertices(r *bufio.Reader, n int, props []plyProperty, xi, yi, zi, nxi, nyi, nzi, ui, vi int, mesh *geomcore.Mesh) error {
	for i := 0; i < n; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < len(props) {
			return fmt.Errorf("vertex %d: expected %d fields, got %d", i, len(props), len(fields))
		}
		vals := make([]float64, len(fields))
		for j, f := range fields {
			vals[j], _ = strconv.ParseFloat(f, 64)
		}
		mesh.Positions[i] = vmath.Vec3{X: vals[xi], Y: vals[yi], Z: vals[zi]}
		if mesh.Normals != nil {
			mesh.Normals[i] = vmath.Vec3{X: vals[nxi], Y: vals[nyi], Z: vals[nzi]}
		}
		if mesh.UVs != nil {
			mesh.UVs[i] = vmath.Vec2{X: vals[ui], Y: vals[vi]}
		}
	}
	return nil
}

func readPLYAsciiFaces(r *bufio.Reader, n int, mesh *geomcore.Mesh) error {
	for i := 0; i < n; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 1 {
			return fmt.Errorf("face %d: empty", i)
		}
		count, _ := strconv.Atoi(fields[0])
		idx := make([]int32, count)
		for k := 0; k < count; k++ {
			v, _ := strconv.Atoi(fields[1+k])
			idx[k] = int32(v)
		}
		for k := 1; k+1 < count; k++ {
			mesh.Faces = append(mesh.Faces, geomcore.Face{I0: idx[0], I1: idx[k], I2: idx[k+1]})
		}
	}
	return nil
}

func readPLYBinaryVertices(r *bufio.Reader, n int, props []plyProperty, xi, yi, zi, nxi, nyi, nzi, ui, vi int, mesh *geomcore.Mesh) error {
	for i := 0; i < n; i++ {
		vals := make([]float64, len(props))
		for j, p := range props {
			v, err := readPLYScalar(r, p.dataType)
			if err != nil {
				return err
			}
			vals[j] = v
		}
		mesh.Positions[i] = vmath.Vec3{X: vals[xi], Y: vals[yi], Z: vals[zi]}
		if mesh.Normals != nil {
			mesh.Normals[i] = vmath.Vec3{X: vals[nxi], Y: vals[nyi], Z: vals[nzi]}
		}
		if mesh.UVs != nil {
			mesh.UVs[i] = vmath.Vec2{X: vals[ui], Y: vals[vi]}
		}
	}
	return nil
}

func readPLYBinaryFaces(r *bufio.Reader, n int, mesh *geomcore.Mesh) error {
	for i := 0; i < n; i++ {
		var count uint8
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return err
		}
		idx := make([]int32, count)
		for k := range idx {
			var v int32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return err
			}
			idx[k] = v
		}
		for k := 1; int(k)+1 < int(count); k++ {
			mesh.Faces = append(mesh.Faces, geomcore.Face{I0: idx[0], I1: idx[k], I2: idx[k+1]})
		}
	}
	return nil
}

func readPLYScalar(r *bufio.Reader, dataType string) (float64, error) {
	switch dataType {
	case "float", "float32":
		var v float32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "double", "float64":
		var v float64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return v, nil
	case "uchar", "uint8":
		b, err := r.ReadByte()
		return float64(b), err
	case "int", "int32":
		var v int32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unsupported PLY scalar type %q", dataType)
	}
}
