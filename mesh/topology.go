package mesh

// EdgeKey identifies an undirected mesh edge by its canonical vertex pair,
// with A < B. Edges are always derived on demand from faces, never stored as
// standalone entities.
type EdgeKey struct {
	A, B int
}

// MakeEdgeKey canonicalizes a vertex pair.
func MakeEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Topology indexes edge usage and vertex incidence for one snapshot. An edge
// with count 1 is a free edge; an edge with count > 2 is a non-manifold
// candidate. Construction is a single O(F) pass.
type Topology struct {
	// EdgeCounts maps every canonical edge to the number of faces using it.
	EdgeCounts map[EdgeKey]int
	// FaceEdges lists the three canonical edges of each face.
	FaceEdges [][3]EdgeKey

	edgeFaces   map[EdgeKey][]int
	vertexEdges [][]EdgeKey
	adjacency   [][]int
}

// BuildTopology indexes the faces of a checked mesh.
func BuildTopology(m Mesh) *Topology {
	t := &Topology{
		EdgeCounts:  make(map[EdgeKey]int, m.FaceCount()*3/2),
		FaceEdges:   make([][3]EdgeKey, m.FaceCount()),
		edgeFaces:   make(map[EdgeKey][]int, m.FaceCount()*3/2),
		vertexEdges: make([][]EdgeKey, m.VertexCount()),
	}

	for i := 0; i < m.FaceCount(); i++ {
		f := m.Face(i)
		edges := [3]EdgeKey{
			MakeEdgeKey(f[0], f[1]),
			MakeEdgeKey(f[1], f[2]),
			MakeEdgeKey(f[2], f[0]),
		}
		t.FaceEdges[i] = edges
		for _, e := range edges {
			if t.EdgeCounts[e] == 0 {
				// First occurrence registers the edge at both endpoints.
				t.vertexEdges[e.A] = append(t.vertexEdges[e.A], e)
				t.vertexEdges[e.B] = append(t.vertexEdges[e.B], e)
			}
			t.EdgeCounts[e]++
			t.edgeFaces[e] = append(t.edgeFaces[e], i)
		}
	}
	return t
}

// IsFree reports whether the edge is used by exactly one face.
func (t *Topology) IsFree(e EdgeKey) bool {
	return t.EdgeCounts[e] == 1
}

// VertexEdges returns the distinct edges incident to a vertex.
func (t *Topology) VertexEdges(v int) []EdgeKey {
	return t.vertexEdges[v]
}

// FreeEdgeCount returns the number of free edges incident to a vertex.
func (t *Topology) FreeEdgeCount(v int) int {
	n := 0
	for _, e := range t.vertexEdges[v] {
		if t.EdgeCounts[e] == 1 {
			n++
		}
	}
	return n
}

// EdgeFaces returns the faces using an edge.
func (t *Topology) EdgeFaces(e EdgeKey) []int {
	return t.edgeFaces[e]
}

// AdjacentFaces returns the faces sharing an edge with face i. The relation
// is built lazily on first use and cached.
func (t *Topology) AdjacentFaces(i int) []int {
	if t.adjacency == nil {
		t.buildAdjacency()
	}
	return t.adjacency[i]
}

func (t *Topology) buildAdjacency() {
	t.adjacency = make([][]int, len(t.FaceEdges))
	for _, faces := range t.edgeFaces {
		for a := 0; a < len(faces); a++ {
			for b := a + 1; b < len(faces); b++ {
				t.adjacency[faces[a]] = append(t.adjacency[faces[a]], faces[b])
				t.adjacency[faces[b]] = append(t.adjacency[faces[b]], faces[a])
			}
		}
	}
}
