// Package nifti reads and writes NIfTI-1 volumes.
//
// Only the features the spineqc tools need are implemented: single-file .nii
// and .nii.gz images, the common scalar datatypes, and header round-tripping
// so that every output carries the input's spatial transform and voxel
// spacing unchanged. Header extensions are dropped on write.
package nifti

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// NIfTI-1 datatype codes (from the official nifti1.h definition).
const (
	DTUint8   int16 = 2
	DTInt16   int16 = 4
	DTInt32   int16 = 8
	DTFloat32 int16 = 16
	DTFloat64 int16 = 64
	DTInt8    int16 = 256
	DTUint16  int16 = 512
	DTUint32  int16 = 768
)

const headerSize = 348

// Header is the fixed 348-byte NIfTI-1 header. Field order and widths follow
// the official definition; unused fields are retained so the header can be
// re-emitted verbatim.
type Header struct {
	SizeofHdr          int32
	UnusedDataType     [10]byte
	UnusedDbName       [18]byte
	UnusedExtents      int32
	UnusedSessionError int16
	UnusedRegular      byte
	DimInfo            byte
	Dim                [8]int16
	IntentP1           float32
	IntentP2           float32
	IntentP3           float32
	IntentCode         int16
	Datatype           int16
	Bitpix             int16
	SliceStart         int16
	Pixdim             [8]float32
	VoxOffset          float32
	SclSlope           float32
	SclInter           float32
	SliceEnd           int16
	SliceCode          byte
	XyztUnits          byte
	CalMax             float32
	CalMin             float32
	SliceDuration      float32
	Toffset            float32
	UnusedGlmax        int32
	UnusedGlmin        int32
	Descrip            [80]byte
	AuxFile            [24]byte
	QformCode          int16
	SformCode          int16
	QuaternB           float32
	QuaternC           float32
	QuaternD           float32
	QoffsetX           float32
	QoffsetY           float32
	QoffsetZ           float32
	SrowX              [4]float32
	SrowY              [4]float32
	SrowZ              [4]float32
	IntentName         [16]byte
	Magic              [4]byte
}

// Image is a 3-D volume plus the header it was loaded with. Data holds voxel
// values in x-fastest (column-major, as on disk) order with scl slope/inter
// already applied.
type Image struct {
	Header Header
	Data   []float64
	Nx     int
	Ny     int
	Nz     int
}

// New creates an all-zero volume with a minimal valid header and unit voxel
// spacing. Intended for synthetic volumes in tests and for building outputs
// from scratch.
func New(nx, ny, nz int) *Image {
	img := &Image{
		Data: make([]float64, nx*ny*nz),
		Nx:   nx,
		Ny:   ny,
		Nz:   nz,
	}
	h := &img.Header
	h.SizeofHdr = headerSize
	h.Dim = [8]int16{3, int16(nx), int16(ny), int16(nz), 1, 1, 1, 1}
	h.Pixdim = [8]float32{1, 1, 1, 1, 1, 1, 1, 1}
	h.Datatype = DTFloat32
	h.Bitpix = 32
	h.SclSlope = 1
	h.VoxOffset = headerSize + 4
	copy(h.Magic[:], "n+1\x00")
	return img
}

// Clone returns a deep copy sharing nothing with the receiver.
func (img *Image) Clone() *Image {
	out := *img
	out.Data = make([]float64, len(img.Data))
	copy(out.Data, img.Data)
	return &out
}

// Index converts voxel coordinates to the flat Data index.
func (img *Image) Index(x, y, z int) int {
	return z*img.Nx*img.Ny + y*img.Nx + x
}

// At returns the voxel value at (x, y, z).
func (img *Image) At(x, y, z int) float64 {
	return img.Data[img.Index(x, y, z)]
}

// SetAt stores a voxel value at (x, y, z).
func (img *Image) SetAt(x, y, z int, v float64) {
	img.Data[img.Index(x, y, z)] = v
}

// Zooms returns the voxel spacing along x, y, z in the header's spatial units.
// Missing or zero spacings default to 1.0.
func (img *Image) Zooms() [3]float64 {
	var zooms [3]float64
	for i := 0; i < 3; i++ {
		zooms[i] = float64(img.Header.Pixdim[i+1])
		if zooms[i] <= 0 {
			zooms[i] = 1.0
		}
	}
	return zooms
}

// ForceInt16 patches the header so the image is written as 16-bit signed
// integers with no scaling, matching the convention for binary masks.
func (img *Image) ForceInt16() {
	img.Header.Datatype = DTInt16
	img.Header.Bitpix = 16
	img.Header.SclSlope = 1
	img.Header.SclInter = 0
}

// Load reads a .nii or .nii.gz volume into memory. The full voxel array is
// decoded at once; 4-D inputs are accepted but only the first volume is kept.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream in %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	img, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func decode(raw []byte) (*Image, error) {
	if len(raw) < headerSize {
		return nil, fmt.Errorf("file too short for a NIfTI-1 header (%d bytes)", len(raw))
	}

	var hdr Header
	order := binary.ByteOrder(binary.LittleEndian)
	if err := binary.Read(bytes.NewReader(raw[:headerSize]), order, &hdr); err != nil {
		return nil, err
	}
	if hdr.SizeofHdr != headerSize {
		// Retry as big-endian before giving up.
		order = binary.BigEndian
		if err := binary.Read(bytes.NewReader(raw[:headerSize]), order, &hdr); err != nil {
			return nil, err
		}
		if hdr.SizeofHdr != headerSize {
			return nil, fmt.Errorf("not a NIfTI-1 file (sizeof_hdr=%d)", hdr.SizeofHdr)
		}
	}
	if hdr.Dim[0] < 1 || hdr.Dim[0] > 7 {
		return nil, fmt.Errorf("invalid dimension count %d", hdr.Dim[0])
	}

	nx, ny, nz := int(hdr.Dim[1]), 1, 1
	if hdr.Dim[0] >= 2 {
		ny = int(hdr.Dim[2])
	}
	if hdr.Dim[0] >= 3 {
		nz = int(hdr.Dim[3])
	}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("invalid volume shape %dx%dx%d", nx, ny, nz)
	}

	nvox := nx * ny * nz
	offset := int(hdr.VoxOffset)
	if offset < headerSize {
		offset = headerSize
	}

	bytesPer, err := bytesPerVoxel(hdr.Datatype)
	if err != nil {
		return nil, err
	}
	if len(raw) < offset+nvox*bytesPer {
		return nil, fmt.Errorf("truncated voxel data: need %d bytes at offset %d, have %d",
			nvox*bytesPer, offset, len(raw))
	}

	data := make([]float64, nvox)
	body := raw[offset:]
	switch hdr.Datatype {
	case DTUint8:
		for i := range data {
			data[i] = float64(body[i])
		}
	case DTInt8:
		for i := range data {
			data[i] = float64(int8(body[i]))
		}
	case DTInt16:
		for i := range data {
			data[i] = float64(int16(order.Uint16(body[i*2:])))
		}
	case DTUint16:
		for i := range data {
			data[i] = float64(order.Uint16(body[i*2:]))
		}
	case DTInt32:
		for i := range data {
			data[i] = float64(int32(order.Uint32(body[i*4:])))
		}
	case DTUint32:
		for i := range data {
			data[i] = float64(order.Uint32(body[i*4:]))
		}
	case DTFloat32:
		for i := range data {
			data[i] = float64(math.Float32frombits(order.Uint32(body[i*4:])))
		}
	case DTFloat64:
		for i := range data {
			data[i] = math.Float64frombits(order.Uint64(body[i*8:]))
		}
	}

	// Apply the header's linear scaling the way readers are expected to:
	// slope 0 means "no scaling stored".
	slope, inter := float64(hdr.SclSlope), float64(hdr.SclInter)
	if slope != 0 && (slope != 1 || inter != 0) {
		for i := range data {
			data[i] = data[i]*slope + inter
		}
	}

	return &Image{Header: hdr, Data: data, Nx: nx, Ny: ny, Nz: nz}, nil
}

func bytesPerVoxel(datatype int16) (int, error) {
	switch datatype {
	case DTUint8, DTInt8:
		return 1, nil
	case DTInt16, DTUint16:
		return 2, nil
	case DTInt32, DTUint32, DTFloat32:
		return 4, nil
	case DTFloat64:
		return 8, nil
	default:
		return 0, fmt.Errorf("unsupported NIfTI datatype code %d", datatype)
	}
}

// Save writes the image to path, gzip-compressed when the name ends in .gz.
// The stored header is re-emitted with only the bookkeeping fields (size,
// offset, magic, shape) normalized; spatial metadata is untouched. Parent
// directories are created as needed.
func (img *Image) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	hdr := img.Header
	hdr.SizeofHdr = headerSize
	hdr.VoxOffset = headerSize + 4
	copy(hdr.Magic[:], "n+1\x00")
	// Only the spatial dimensions are carried, so the written header is
	// always 3-D even when the source declared trailing dimensions.
	hdr.Dim[0] = 3
	hdr.Dim[1] = int16(img.Nx)
	hdr.Dim[2] = int16(img.Ny)
	hdr.Dim[3] = int16(img.Nz)
	hdr.Dim[4], hdr.Dim[5], hdr.Dim[6], hdr.Dim[7] = 1, 1, 1, 1
	// Data already has the input's scaling applied, so the output must not
	// declare it a second time.
	if hdr.SclSlope != 0 && (hdr.SclSlope != 1 || hdr.SclInter != 0) {
		hdr.SclSlope = 1
		hdr.SclInter = 0
	}
	if _, err := bytesPerVoxel(hdr.Datatype); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	// Four zero bytes: no header extensions.
	buf.Write([]byte{0, 0, 0, 0})
	if err := encodeVoxels(&buf, img.Data, hdr.Datatype); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("finishing %s: %w", path, err)
		}
	}
	return f.Close()
}

func encodeVoxels(buf *bytes.Buffer, data []float64, datatype int16) error {
	le := binary.LittleEndian
	var scratch [8]byte
	for _, v := range data {
		switch datatype {
		case DTUint8:
			buf.WriteByte(uint8(math.Round(v)))
		case DTInt8:
			buf.WriteByte(byte(int8(math.Round(v))))
		case DTInt16:
			le.PutUint16(scratch[:2], uint16(int16(math.Round(v))))
			buf.Write(scratch[:2])
		case DTUint16:
			le.PutUint16(scratch[:2], uint16(math.Round(v)))
			buf.Write(scratch[:2])
		case DTInt32:
			le.PutUint32(scratch[:4], uint32(int32(math.Round(v))))
			buf.Write(scratch[:4])
		case DTUint32:
			le.PutUint32(scratch[:4], uint32(math.Round(v)))
			buf.Write(scratch[:4])
		case DTFloat32:
			le.PutUint32(scratch[:4], math.Float32bits(float32(v)))
			buf.Write(scratch[:4])
		case DTFloat64:
			le.PutUint64(scratch[:8], math.Float64bits(v))
			buf.Write(scratch[:8])
		default:
			return fmt.Errorf("unsupported NIfTI datatype code %d", datatype)
		}
	}
	return nil
}
