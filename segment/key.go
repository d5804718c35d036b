package segment

import "github.com/rajivbishwokarma/tensil/isa"

// Key identifies one segment: a (layer, stage, partition, kind)
// 4-tuple. Lexicographic order on this tuple is the canonical
// traversal order the backend sorts segments into before building
// tiles; map iteration order is never observable.
type Key struct {
	Layer     uint32
	Stage     uint32
	Partition uint32
	Kind      isa.Kind
}

// Less reports whether k sorts before other in canonical traversal
// order: layer, then stage, then partition, then kind.
func (k Key) Less(other Key) bool {
	if k.Layer != other.Layer {
		return k.Layer < other.Layer
	}
	if k.Stage != other.Stage {
		return k.Stage < other.Stage
	}
	if k.Partition != other.Partition {
		return k.Partition < other.Partition
	}
	return k.Kind < other.Kind
}
