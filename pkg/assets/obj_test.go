package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumetra/pathbench/pkg/rterr"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const triangleOBJ = `
# comment line
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

func TestLoadOBJTriangle(t *testing.T) {
	path := writeTempFile(t, "tri.obj", triangleOBJ)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.NumVertices() != 3 {
		t.Fatalf("expected 3 vertices, got %d", mesh.NumVertices())
	}
	if mesh.NumFaces() != 1 {
		t.Fatalf("expected 1 face, got %d", mesh.NumFaces())
	}
	if len(mesh.Normals) != 3 {
		t.Fatalf("expected per-vertex normals to be populated, got %d", len(mesh.Normals))
	}
}

const quadOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestLoadOBJTriangulatesQuad(t *testing.T) {
	path := writeTempFile(t, "quad.obj", quadOBJ)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.NumFaces() != 2 {
		t.Fatalf("fan-triangulating a quad should yield 2 faces, got %d", mesh.NumFaces())
	}
}

func TestLoadOBJMissingFileReturnsAssetError(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "does-not-exist.obj"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	var assetErr *rterr.AssetError
	if !errors.As(err, &assetErr) {
		t.Errorf("expected *rterr.AssetError, got %T: %v", err, err)
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	path := writeTempFile(t, "neg.obj", src)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.NumFaces() != 1 || mesh.NumVertices() != 3 {
		t.Fatalf("negative relative indices should resolve to the same triangle, got %d verts %d faces",
			mesh.NumVertices(), mesh.NumFaces())
	}
}
