package generate

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	Fingerprint  = fingerprint
	PagesPresent = pagesPresent
	RenderSafely = renderSafely
)
