package transitdb

var (
	// Version of transitdb.
	Version = "v0.1.0"
	// Build timestamp, set with ldflags.
	Build = "n/a"
)
