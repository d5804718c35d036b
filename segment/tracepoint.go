package segment

// ConditionSet carries whatever arbitrary key/value metadata the
// front end wants attached to a tracepoint. The backend never
// interprets it, only stores and returns it.
type ConditionSet map[string]string

// Tracepoint records that some front-end-meaningful event occurred at
// a given instruction offset within a segment's own stream.
type Tracepoint struct {
	Offset     uint64
	Conditions ConditionSet
}

// Collector receives tracepoints as a segment is built. Segment
// implements Collector itself by recording into its own map; front
// ends needing a different sink (e.g. forwarding into a compiler's
// trace context) can supply their own implementation; this interface
// exists so Segment never needs to know which.
type Collector interface {
	Record(offset uint64, conditions ConditionSet)
}
