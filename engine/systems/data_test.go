package systems

import (
	"errors"
	"strings"
	"testing"

	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/memory"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

func TestDrawCounts(t *testing.T) {
	indexedVertices, indices := math.GenerateIndexedQuad(1, 1)
	linePoints := []math.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

	tests := []struct {
		name        string
		vertices    []float32
		indices     []uint32
		mode        metadata.DrawMode
		wantCount   uint32
		wantIndexed bool
	}{
		{"triangles", quadVertices(), nil, metadata.DrawModeTriangles, 6, false},
		{"indexed triangles", math.FlattenVertices(indexedVertices), indices, metadata.DrawModeTriangles, 6, true},
		{"lines", math.FlattenPoints(linePoints), nil, metadata.DrawModeLines, 4, false},
		{"indexed lines", math.FlattenPoints(linePoints), []uint32{0, 1, 1, 2, 2, 3, 3, 0}, metadata.DrawModeLines, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(t)
			rig.bindShader(t)

			handle := rig.renderer.LoadData(tt.vertices, tt.indices, tt.mode, metadata.DataUsageStatic)
			if handle == metadata.InvalidHandle {
				t.Fatalf("LoadData() returned the invalid handle")
			}
			rig.renderer.DrawData(handle, rig.camera, math.NewMat4Identity(), metadata.DrawParameters{})

			draws := rig.backend.Draws()
			if len(draws) != 1 {
				t.Fatalf("got %d draws, want 1", len(draws))
			}
			if draws[0].Count != tt.wantCount || draws[0].Indexed != tt.wantIndexed {
				t.Errorf("got count %d indexed %v, want %d indexed %v", draws[0].Count, draws[0].Indexed, tt.wantCount, tt.wantIndexed)
			}
			if draws[0].Mode != tt.mode {
				t.Errorf("got mode %s, want %s", draws[0].Mode, tt.mode)
			}
		})
	}
}

func TestLoadDataRejectsInvalidLayout(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		indices  []uint32
		mode     metadata.DrawMode
	}{
		{"empty", nil, nil, metadata.DrawModeTriangles},
		{"partial triangle vertex", make([]float32, 7), nil, metadata.DrawModeTriangles},
		{"partial line vertex", make([]float32, 4), nil, metadata.DrawModeLines},
		{"index out of range", make([]float32, 15), []uint32{0, 1, 3}, metadata.DrawModeTriangles},
		{"unknown mode", make([]float32, 15), nil, metadata.DrawMode(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(t)
			logs := captureLogs(t)

			handle := rig.renderer.LoadData(tt.vertices, tt.indices, tt.mode, metadata.DataUsageStatic)
			if handle != metadata.InvalidHandle {
				t.Fatalf("got handle %d, want the invalid handle", handle)
			}
			if !strings.Contains(logs.String(), "Failed to load data") {
				t.Errorf("load failure was not logged, got %q", logs.String())
			}
		})
	}
}

func TestStaticDataIsSizedExactly(t *testing.T) {
	rig := newTestRig(t)
	vertices, indices := math.GenerateIndexedQuad(1, 1)
	handle := rig.renderer.LoadData(math.FlattenVertices(vertices), indices, metadata.DrawModeTriangles, metadata.DataUsageStatic)

	info := rig.renderer.GetDataInfo(handle)
	want := metadata.DataInfo{
		Mode:           metadata.DrawModeTriangles,
		Usage:          metadata.DataUsageStatic,
		VertexCount:    4,
		IndexCount:     6,
		VertexCapacity: 4,
		IndexCapacity:  6,
	}
	if info != want {
		t.Errorf("got %+v, want %+v", info, want)
	}
}

func TestDynamicDataCapacity(t *testing.T) {
	rig := newTestRig(t)
	points := func(n int) []float32 {
		return make([]float32, n*3)
	}

	handle := rig.renderer.LoadData(points(4), nil, metadata.DrawModeLines, metadata.DataUsageDynamic)
	data, ok := rig.renderer.dataSystem.Get(handle)
	if !ok {
		t.Fatalf("data #%d not found after load", handle)
	}
	if data.VertexCapacity != 8 {
		t.Fatalf("got initial capacity %d, want 8", data.VertexCapacity)
	}

	// Within capacity: written in place.
	rig.renderer.UpdateData(handle, points(8), nil)
	if got := rig.backend.Allocations(data); got != 1 {
		t.Errorf("got %d allocations after in-capacity update, want 1", got)
	}
	if data.VertexCount != 8 || data.VertexCapacity != 8 {
		t.Errorf("got count %d capacity %d, want 8 and 8", data.VertexCount, data.VertexCapacity)
	}

	// Over capacity: reallocated at twice the new content.
	rig.renderer.UpdateData(handle, points(10), nil)
	if got := rig.backend.Allocations(data); got != 2 {
		t.Errorf("got %d allocations after growth, want 2", got)
	}
	if data.VertexCount != 10 || data.VertexCapacity != 20 {
		t.Errorf("got count %d capacity %d, want 10 and 20", data.VertexCount, data.VertexCapacity)
	}

	// Shrinking keeps the buffer.
	rig.renderer.UpdateData(handle, points(2), nil)
	if got := rig.backend.Allocations(data); got != 2 {
		t.Errorf("got %d allocations after shrinking, want 2", got)
	}
	if data.DrawCount() != 2 {
		t.Errorf("got draw count %d, want 2", data.DrawCount())
	}
}

func TestDynamicDataGrowsIndexBuffer(t *testing.T) {
	rig := newTestRig(t)
	vertices := make([]float32, 4*3)

	handle := rig.renderer.LoadData(vertices, []uint32{0, 1}, metadata.DrawModeLines, metadata.DataUsageDynamic)
	rig.renderer.UpdateData(handle, vertices, []uint32{0, 1, 1, 2, 2, 3})

	info := rig.renderer.GetDataInfo(handle)
	if info.IndexCount != 6 || info.IndexCapacity != 12 {
		t.Errorf("got index count %d capacity %d, want 6 and 12", info.IndexCount, info.IndexCapacity)
	}
	if info.VertexCapacity != 8 {
		t.Errorf("got vertex capacity %d, want it kept at 8", info.VertexCapacity)
	}
}

func TestUpdateDataContents(t *testing.T) {
	rig := newTestRig(t)
	handle := rig.renderer.LoadData([]float32{0, 0, 0, 1, 1, 1}, nil, metadata.DrawModeLines, metadata.DataUsageDynamic)
	rig.renderer.UpdateData(handle, []float32{2, 2, 2, 3, 3, 3}, nil)

	data, _ := rig.renderer.dataSystem.Get(handle)
	vertices, _, ok := rig.backend.BufferContents(data)
	if !ok {
		t.Fatalf("no buffer for data #%d", handle)
	}
	want := []float32{2, 2, 2, 3, 3, 3}
	for i, v := range want {
		if vertices[i] != v {
			t.Fatalf("got vertices %v, want prefix %v", vertices, want)
		}
	}
}

func TestUpdateStaticDataIsRejected(t *testing.T) {
	rig := newTestRig(t)
	original := []float32{0, 0, 0, 1, 1, 1}
	handle := rig.renderer.LoadData(original, nil, metadata.DrawModeLines, metadata.DataUsageStatic)
	logs := captureLogs(t)

	rig.renderer.UpdateData(handle, []float32{5, 5, 5, 6, 6, 6}, nil)

	if !strings.Contains(logs.String(), "static") {
		t.Errorf("static update was not logged, got %q", logs.String())
	}
	data, _ := rig.renderer.dataSystem.Get(handle)
	vertices, _, _ := rig.backend.BufferContents(data)
	for i, v := range original {
		if vertices[i] != v {
			t.Fatalf("got vertices %v, want them unchanged %v", vertices, original)
		}
	}
}

func TestUpdateMissingData(t *testing.T) {
	rig := newTestRig(t)
	logs := captureLogs(t)

	rig.renderer.UpdateData(42, []float32{0, 0, 0}, nil)
	if !strings.Contains(logs.String(), "does not exist") {
		t.Errorf("missing handle was not logged, got %q", logs.String())
	}
}

func TestDeleteDataTwice(t *testing.T) {
	rig := newTestRig(t)
	handle := rig.renderer.LoadData(quadVertices(), nil, metadata.DrawModeTriangles, metadata.DataUsageStatic)
	logs := captureLogs(t)

	rig.renderer.DeleteData(handle)
	if logs.Len() != 0 {
		t.Errorf("first delete logged %q, want nothing", logs.String())
	}
	rig.renderer.DeleteData(handle)
	if !strings.Contains(logs.String(), "does not exist") {
		t.Errorf("second delete did not warn, got %q", logs.String())
	}
	if got := rig.renderer.dataSystem.Count(); got != 0 {
		t.Errorf("got %d live data, want 0", got)
	}
}

func TestDataHandleSlotReuse(t *testing.T) {
	rig := newTestRig(t)
	first := rig.renderer.LoadData(quadVertices(), nil, metadata.DrawModeTriangles, metadata.DataUsageStatic)
	second := rig.renderer.LoadData(quadVertices(), nil, metadata.DrawModeTriangles, metadata.DataUsageStatic)
	if first == second {
		t.Fatalf("two live resources share handle %d", first)
	}

	rig.renderer.DeleteData(first)
	third := rig.renderer.LoadData(quadVertices(), nil, metadata.DrawModeTriangles, metadata.DataUsageStatic)
	if third != first {
		t.Errorf("got handle %d, want the released %d", third, first)
	}
}

func TestDataSystemCapacityLimit(t *testing.T) {
	ds, err := NewDataSystem(&DataSystemConfig{MaxDataCount: 1}, newTestRig(t).backend)
	if err != nil {
		t.Fatalf("NewDataSystem() error = %v", err)
	}
	if h := ds.Load(quadVertices(), nil, metadata.DrawModeTriangles, metadata.DataUsageStatic); h == metadata.InvalidHandle {
		t.Fatalf("first load failed")
	}
	if h := ds.Load(quadVertices(), nil, metadata.DrawModeTriangles, metadata.DataUsageStatic); h != metadata.InvalidHandle {
		t.Errorf("got handle %d past the limit, want the invalid handle", h)
	}
}

func TestNewDataSystemValidatesConfig(t *testing.T) {
	if _, err := NewDataSystem(&DataSystemConfig{}, newTestRig(t).backend); err == nil {
		t.Errorf("got nil error for a zero MaxDataCount")
	}
}

// failingBackend rejects buffer reallocation and writes once armed.
type failingBackend struct {
	*memory.Backend
	fail bool
}

func (b *failingBackend) BufferResize(data *metadata.Data, vertices []float32, indices []uint32) error {
	if b.fail {
		return errors.New("out of memory")
	}
	return b.Backend.BufferResize(data, vertices, indices)
}

func (b *failingBackend) BufferWrite(data *metadata.Data, vertices []float32, indices []uint32) error {
	if b.fail {
		return errors.New("out of memory")
	}
	return b.Backend.BufferWrite(data, vertices, indices)
}

func TestFailedUpdateKeepsData(t *testing.T) {
	points := func(n int) []float32 {
		return make([]float32, n*3)
	}
	tests := []struct {
		name     string
		vertices int
		indices  []uint32
	}{
		{"resize", 10, nil},
		{"index resize", 2, []uint32{0, 1, 1, 0}},
		{"write in place", 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &failingBackend{Backend: newTestRig(t).backend}
			ds, err := NewDataSystem(&DataSystemConfig{MaxDataCount: 8}, backend)
			if err != nil {
				t.Fatalf("NewDataSystem() error = %v", err)
			}
			handle := ds.Load(points(4), nil, metadata.DrawModeLines, metadata.DataUsageDynamic)
			data, ok := ds.Get(handle)
			if !ok {
				t.Fatalf("data #%d not found after load", handle)
			}
			before := *data

			backend.fail = true
			logs := captureLogs(t)
			ds.Update(handle, points(tt.vertices), tt.indices)

			if data.VertexCount != before.VertexCount || data.IndexCount != before.IndexCount {
				t.Errorf("got counts %d/%d, want %d/%d", data.VertexCount, data.IndexCount, before.VertexCount, before.IndexCount)
			}
			if data.VertexCapacity != before.VertexCapacity || data.IndexCapacity != before.IndexCapacity {
				t.Errorf("got capacities %d/%d, want %d/%d", data.VertexCapacity, data.IndexCapacity, before.VertexCapacity, before.IndexCapacity)
			}
			if !strings.Contains(logs.String(), "out of memory") {
				t.Errorf("got log %q, want the backend error", logs.String())
			}

			// The same update goes through once the backend recovers.
			backend.fail = false
			ds.Update(handle, points(tt.vertices), tt.indices)
			if data.VertexCount != uint32(tt.vertices) || data.IndexCount != uint32(len(tt.indices)) {
				t.Errorf("got counts %d/%d after recovery, want %d/%d", data.VertexCount, data.IndexCount, tt.vertices, len(tt.indices))
			}
		})
	}
}
