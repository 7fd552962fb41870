package catalog

// Snapshot is the normalized, fully-defaulted view of a storefront product
// used as prompt input. Every field is always populated; missing source data
// is replaced by the documented defaults, never left empty. Snapshots live
// only for the duration of one pipeline invocation.
type Snapshot struct {
	Title       string
	Price       string
	Type        string
	Vendor      string
	Description string
	Features    string
	Tags        string
}
