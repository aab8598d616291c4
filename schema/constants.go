package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ComplexityMetric represents how file complexity is measured for hotspots.
	ComplexityMetric string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// UnknownTeam is the alignment key for authors not listed in any team.
const UnknownTeam = "unknown"

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All complexity metrics supported.
const (
	LengthMetric ComplexityMetric = "length" // default
	McCabeMetric ComplexityMetric = "mccabe"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidComplexityMetrics lists all valid complexity metrics.
var ValidComplexityMetrics = map[ComplexityMetric]struct{}{
	LengthMetric: {},
	McCabeMetric: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
