package config

// Exported for white-box tests.
var (
	ResolveToken = resolveToken
	Validate     = validate
)
