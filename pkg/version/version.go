package version

var (
	Version   = "0.1.0"
	GitCommit = "dev"
	BuildDate = "20261019120000"
)

// String returns a human-readable version string.
func String() string {
	return "scaffkit " + Version + " (" + GitCommit + ", " + BuildDate + ")"
}
