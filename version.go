package fetcher

// Program identity, printed in the startup banner and the version output.
const (
	Name        = "fetcher"
	Version     = "1.0"
	Author      = "Hesam Aghajani"
	Description = "Fetch multiple URLs concurrently"
)
