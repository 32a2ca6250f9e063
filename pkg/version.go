package sp2tax

var (
	// Version of sp2tax, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
