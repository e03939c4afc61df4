package frontier

// WorkItem is one admitted, not-yet-dispatched URL (spec §4.7:
// DISCOVERED -> QUEUED). Parent is the first document observed to
// reference it — the dedupe cache never overwrites this once set.
type WorkItem struct {
	URL    string
	Parent string

	// IsSeed marks an item that came directly from opts.Path(). Seeds
	// are always handed to the Link Extractor regardless of the
	// recursion policy (spec §4.7: "Seeds themselves are always
	// extracted").
	IsSeed bool

	// Attempt is how many fetch attempts this URL has already spent,
	// carried over from the retry queue (spec §4.6) when a retry comes
	// due and is requeued. Zero for a fresh admission.
	Attempt int

	// InScope is true iff this URL's origin matched the scope it was
	// discovered under (spec §4.2 step 5), decided once at admission
	// time by the Normalizer and carried on the item rather than
	// recomputed at dispatch.
	InScope bool
}
