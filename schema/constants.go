package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ReportStatus represents the outcome of analyzing one (day, repo) pair.
	ReportStatus string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All report statuses. Anything other than ReportedStatus is a silent skip.
const (
	ReportedStatus  ReportStatus = "reported"
	NoBranchStatus  ReportStatus = "no-branch"
	NoCommitsStatus ReportStatus = "no-commits"
	NoDiffStatus    ReportStatus = "no-diff"
	NoChangesStatus ReportStatus = "no-changes"
	FailedStatus    ReportStatus = "failed"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// UnclassifiedLabel is the category for changed files that match no rule.
const UnclassifiedLabel = "unclassified"

// EmptyCommitLabel replaces commit subjects that are blank after trimming.
const EmptyCommitLabel = "(empty commit)"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultCategoryRules is the ordered rule list used when the config file does not
// provide one. Patterns are regular expression fragments matched against file paths.
var DefaultCategoryRules = []CategoryRule{
	{Pattern: `\.php`, Label: "PHP"},
	{Pattern: `\.js`, Label: "JavaScript"},
	{Pattern: `\.(yml|yaml)`, Label: "YML/YAML"},
	{Pattern: `\.ss`, Label: "SilverStripe (SS)"},
	{Pattern: `\.html`, Label: "HTML"},
	{Pattern: `\.htm`, Label: "HTML"},
	{Pattern: `\.json`, Label: "JSON"},
	{Pattern: `\.xml`, Label: "XML"},
	{Pattern: `\.md`, Label: "Markdown"},
	{Pattern: `\.svg`, Label: "SVG"},
	{Pattern: `\.sh`, Label: "Shell Script"},
	{Pattern: `composer\.json`, Label: "Composer"},
	{Pattern: `\.twig`, Label: "Twig Template"},
	{Pattern: `\.blade\.php`, Label: "Blade Template"},
	{Pattern: `\.test\.php`, Label: "PHP Test"},
	{Pattern: `\.spec\.php`, Label: "PHP Spec Test"},
	{Pattern: `\.scss`, Label: "SASS/SCSS"},
	{Pattern: `\.sass`, Label: "SASS"},
	{Pattern: `\.less`, Label: "LESS"},
	{Pattern: `\.ini`, Label: "INI Config"},
	{Pattern: `\.conf`, Label: "Config File"},
}
