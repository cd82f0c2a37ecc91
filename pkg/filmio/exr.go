package filmio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/lumetra/pathbench/pkg/vmath"
)

// SaveEXR writes a minimal single-part, uncompressed, scanline OpenEXR
// file with three 32-bit float channels B, G, R (channel names sort
// alphabetically in OpenEXR's chlist, spec §6 "multi-channel R, G, B, no
// alpha"). No OpenEXR encoder library appears anywhere in the retrieved
// pack (see DESIGN.md), so this hand-writes the documented container
// format directly rather than reaching for a compression codec.
func SaveEXR(path string, width, height int, pixels []vmath.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("filmio: create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	var header bytes.Buffer
	writeHeader(&header, width, height)

	numScanlines := height
	offsetTableSize := int64(numScanlines) * 8
	headerEnd := int64(8 + header.Len()) // magic(4) + version(4) + header
	chunkStart := headerEnd + offsetTableSize

	bytesPerChannelRow := width * 4
	chunkSize := int64(4 + 4 + 3*bytesPerChannelRow) // y + dataSize + 3 channels

	binary.Write(w, binary.LittleEndian, int32(0x01312f76)) // magic
	binary.Write(w, binary.LittleEndian, int32(2))          // version, no flags (single-part scanline)
	w.Write(header.Bytes())

	for y := 0; y < numScanlines; y++ {
		offset := chunkStart + int64(y)*chunkSize
		binary.Write(w, binary.LittleEndian, uint64(offset))
	}

	rowB := make([]byte, bytesPerChannelRow)
	rowG := make([]byte, bytesPerChannelRow)
	rowR := make([]byte, bytesPerChannelRow)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := pixels[y*width+x]
			binary.LittleEndian.PutUint32(rowB[x*4:], float32Bits(float32(c.Z)))
			binary.LittleEndian.PutUint32(rowG[x*4:], float32Bits(float32(c.Y)))
			binary.LittleEndian.PutUint32(rowR[x*4:], float32Bits(float32(c.X)))
		}
		binary.Write(w, binary.LittleEndian, int32(y))
		binary.Write(w, binary.LittleEndian, int32(3*bytesPerChannelRow))
		w.Write(rowB)
		w.Write(rowG)
		w.Write(rowR)
	}
	return w.Flush()
}

func float32Bits(f float32) uint32 {
	return math.Float32bits(f)
}

func writeHeader(buf *bytes.Buffer, width, height int) {
	writeAttr(buf, "channels", "chlist", channelListBytes())
	writeAttr(buf, "compression", "compression", []byte{0}) // NO_COMPRESSION
	box := box2iBytes(0, 0, width-1, height-1)
	writeAttr(buf, "dataWindow", "box2i", box)
	writeAttr(buf, "displayWindow", "box2i", box)
	writeAttr(buf, "lineOrder", "lineOrder", []byte{0}) // INCREASING_Y
	writeAttr(buf, "pixelAspectRatio", "float", float32Bytes(1.0))
	writeAttr(buf, "screenWindowCenter", "v2f", append(float32Bytes(0), float32Bytes(0)...))
	writeAttr(buf, "screenWindowWidth", "float", float32Bytes(1.0))
	buf.WriteByte(0) // end of header
}

func writeAttr(buf *bytes.Buffer, name, typ string, data []byte) {
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.WriteString(typ)
	buf.WriteByte(0)
	var szBuf [4]byte
	binary.LittleEndian.PutUint32(szBuf[:], uint32(len(data)))
	buf.Write(szBuf[:])
	buf.Write(data)
}

// channelListBytes encodes the three FLOAT channels in the alphabetical
// order OpenEXR readers expect (B, G, R), each: name, pixelType(int32
// FLOAT=2), pLinear+reserved(4 bytes), xSampling, ySampling.
func channelListBytes() []byte {
	var buf bytes.Buffer
	for _, name := range []string{"B", "G", "R"} {
		buf.WriteString(name)
		buf.WriteByte(0)
		binary.Write(&buf, binary.LittleEndian, int32(2)) // FLOAT
		buf.Write([]byte{0, 0, 0, 0})                     // pLinear + reserved
		binary.Write(&buf, binary.LittleEndian, int32(1)) // xSampling
		binary.Write(&buf, binary.LittleEndian, int32(1)) // ySampling
	}
	buf.WriteByte(0) // end of chlist
	return buf.Bytes()
}

func box2iBytes(xMin, yMin, xMax, yMax int) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(xMin))
	binary.Write(&buf, binary.LittleEndian, int32(yMin))
	binary.Write(&buf, binary.LittleEndian, int32(xMax))
	binary.Write(&buf, binary.LittleEndian, int32(yMax))
	return buf.Bytes()
}

func float32Bytes(f float32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], float32Bits(f))
	return buf[:]
}
