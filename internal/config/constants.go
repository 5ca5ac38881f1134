package config

const (
	envInput          = "ROSTER_INPUT"
	envOutput         = "ROSTER_OUTPUT"
	envReport         = "ROSTER_REPORT"
	envDefaultPrice   = "ROSTER_DEFAULT_BASE_PRICE"
	envStrict         = "ROSTER_STRICT_CATEGORIES"
	envClassification = "ROSTER_CLASSIFICATION"
	envIDFormat       = "ROSTER_ID_FORMAT"
	envMinFields      = "ROSTER_MIN_FIELDS"
	envSQLitePath     = "ROSTER_SQLITE_PATH"
	envPostgresURL    = "ROSTER_POSTGRES_URL"
	envMetricsOn      = "METRICS_ENABLED"
	envMetricsFile    = "METRICS_TEXTFILE"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"

	reportDisabled = "none"

	defaultInput  = "auction_list.csv"
	defaultOutput = "src/data/players.json"
	// 20 lakh, the reserve used when the price cell is unreadable.
	defaultBasePrice      = int64(2_000_000)
	defaultStrict         = false
	defaultClassification = ClassificationAuto
	defaultIDFormat       = IDFormatPadded
	// Columns 0..20 are read, so anything shorter cannot be a player row.
	defaultMinFields   = 21
	defaultMetricsOn   = false
	defaultServiceName = "auction-roster"
)

// Classification strategies.
const (
	ClassificationLookup    = "lookup"
	ClassificationHeuristic = "heuristic"
	ClassificationAuto      = "auto"
)

// Player id formats.
const (
	IDFormatPadded   = "padded"
	IDFormatPrefixed = "prefixed"
)
