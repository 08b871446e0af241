package types

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// SourceKind selects where the raw catalog is read from
type SourceKind string

const (
	// SourceKindS3 reads the catalog snapshot written to the catalog bucket
	SourceKindS3 SourceKind = "s3"
	// SourceKindFile reads the catalog from a local directory, one file per stage
	SourceKindFile SourceKind = "file"
	// SourceKindAPI pages through the billing provider catalog API
	SourceKindAPI SourceKind = "api"
)
