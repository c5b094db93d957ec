package math

// FlattenVertices packs textured vertices as x, y, z, u, v.
func FlattenVertices(vertices []Vertex3D) []float32 {
	out := make([]float32, 0, len(vertices)*5)
	for _, v := range vertices {
		out = append(out, v.Position.X, v.Position.Y, v.Position.Z, v.Texcoord.X, v.Texcoord.Y)
	}
	return out
}

// FlattenPoints packs line points as x, y, z.
func FlattenPoints(points []Vec3) []float32 {
	out := make([]float32, 0, len(points)*3)
	for _, p := range points {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// GenerateQuad returns a width x height quad centred on the origin in the XY
// plane as two triangles (6 vertices, no indices). UVs span [0,1].
func GenerateQuad(width, height float32) []Vertex3D {
	hw, hh := width*0.5, height*0.5
	return []Vertex3D{
		{Position: Vec3{-hw, -hh, 0}, Texcoord: Vec2{0, 0}},
		{Position: Vec3{hw, -hh, 0}, Texcoord: Vec2{1, 0}},
		{Position: Vec3{hw, hh, 0}, Texcoord: Vec2{1, 1}},
		{Position: Vec3{-hw, -hh, 0}, Texcoord: Vec2{0, 0}},
		{Position: Vec3{hw, hh, 0}, Texcoord: Vec2{1, 1}},
		{Position: Vec3{-hw, hh, 0}, Texcoord: Vec2{0, 1}},
	}
}

// GenerateIndexedQuad is GenerateQuad with 4 shared vertices and 6 indices.
func GenerateIndexedQuad(width, height float32) ([]Vertex3D, []uint32) {
	hw, hh := width*0.5, height*0.5
	vertices := []Vertex3D{
		{Position: Vec3{-hw, -hh, 0}, Texcoord: Vec2{0, 0}},
		{Position: Vec3{hw, -hh, 0}, Texcoord: Vec2{1, 0}},
		{Position: Vec3{hw, hh, 0}, Texcoord: Vec2{1, 1}},
		{Position: Vec3{-hw, hh, 0}, Texcoord: Vec2{0, 1}},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}

// GenerateGrid returns a size x size grid in the XY plane split into slices
// cells per side: slices+1 vertical and slices+1 horizontal lines.
func GenerateGrid(size float32, slices int) ([]Vec3, []uint32) {
	if slices < 1 {
		slices = 1
	}
	half := size / 2.0
	points := make([]Vec3, 0, (slices+1)*4)
	for i := 0; i <= slices; i++ {
		x := float32(i)*size/float32(slices) - half
		points = append(points, Vec3{x, -half, 0}, Vec3{x, half, 0})
	}
	for i := 0; i <= slices; i++ {
		y := float32(i)*size/float32(slices) - half
		points = append(points, Vec3{-half, y, 0}, Vec3{half, y, 0})
	}
	indices := make([]uint32, len(points))
	for i := range indices {
		indices[i] = uint32(i)
	}
	return points, indices
}

// GenerateAxisLine returns a unit segment from the origin along +X.
func GenerateAxisLine() ([]Vec3, []uint32) {
	return []Vec3{{0, 0, 0}, {1, 0, 0}}, []uint32{0, 1}
}
