package assets

import (
	"bytes"
	"encoding/binary"
	"testing"
)

const asciiPLY = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 2
`

func TestLoadPLYAscii(t *testing.T) {
	path := writeTempFile(t, "tri.ply", asciiPLY)
	mesh, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if mesh.NumVertices() != 3 {
		t.Fatalf("expected 3 vertices, got %d", mesh.NumVertices())
	}
	if mesh.NumFaces() != 1 {
		t.Fatalf("expected 1 face, got %d", mesh.NumFaces())
	}
	if mesh.Position(1).X != 1 {
		t.Errorf("vertex 1 X = %v, want 1", mesh.Position(1).X)
	}
}

func TestLoadPLYBinaryLittleEndian(t *testing.T) {
	var body bytes.Buffer
	header := "ply\nformat binary_little_endian 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n"
	body.WriteString(header)

	verts := [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, v := range verts {
		for _, c := range v {
			binary.Write(&body, binary.LittleEndian, c)
		}
	}
	binary.Write(&body, binary.LittleEndian, uint8(3))
	for _, idx := range []int32{0, 1, 2} {
		binary.Write(&body, binary.LittleEndian, idx)
	}

	path := writeTempFile(t, "tri.bin.ply", body.String())
	mesh, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if mesh.NumVertices() != 3 || mesh.NumFaces() != 1 {
		t.Fatalf("got %d vertices, %d faces; want 3, 1", mesh.NumVertices(), mesh.NumFaces())
	}
	if mesh.Position(2).Y != 1 {
		t.Errorf("vertex 2 Y = %v, want 1", mesh.Position(2).Y)
	}
}

func TestLoadPLYRejectsUnknownFormat(t *testing.T) {
	src := "ply\nformat binary_big_endian 1.0\nelement vertex 0\nend_header\n"
	path := writeTempFile(t, "bad.ply", src)
	if _, err := LoadPLY(path); err == nil {
		t.Fatal("expected an error for an unsupported PLY format")
	}
}
