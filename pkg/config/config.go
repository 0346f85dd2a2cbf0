package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                string  // connection string for the reference database
	WaitForServices   string  // duration to wait for other services to be ready
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogFilter         string  // zapfilter rules, empty means no filtering
	EnableTelemetry   bool    // enable telemetry
	TelemetryEndpoint string  // endpoint for telemetry, "stdout" for local debugging
	ProfilingPort     int     // port for profiling
	Addr              string  // listen addr for the HTTP server
	DebrisSource      string  // file path or postgresql:// url of the debris table
	DebrisDensity     float64 // debris density used for impact area thresholds
	SpecificImpulse   float64 // Isp in seconds for maneuver planning
	StandardGravity   float64 // g in m/s^2 for maneuver planning
	NatsURL           string  // if set, non-low recommendations are published here
	NatsSubject       string  // subject for alert messages
	ShutdownTimeout   string  // grace period for in-flight requests
	TLSCertFile       string  // PEM certificate, enables TLS together with TLSKeyFile
	TLSKeyFile        string  // PEM key
	TraefikCerts      string  // traefik acme.json, takes precedence over TLSCertFile
	TraefikCertDomain string  // main domain to look up in TraefikCerts
)

// Config holds the configuration values which are used by the pipeline
type Config struct {
	DebrisDensity   float64
	SpecificImpulse float64
	StandardGravity float64
}

// Pipeline returns the pipeline relevant part of the resolved values
func Pipeline() Config {
	return Config{
		DebrisDensity:   DebrisDensity,
		SpecificImpulse: SpecificImpulse,
		StandardGravity: StandardGravity,
	}
}
