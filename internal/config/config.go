package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Payments      PaymentsConfig
	Membership    MembershipConfig
	TipJar        TipJarConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port        int
	PublicURL   string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Path      string
	LogTiming bool
}

// PaymentsConfig selects the intent provider. An empty StripeSecretKey selects the fixture provider.
type PaymentsConfig struct {
	StripeSecretKey string
	StripeAPIURL    string
}

type MembershipConfig struct {
	TokenTTL time.Duration
	Scope    string
}

type TipJarConfig struct {
	CreatorToken string
}

type ObservabilityConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	OTLPTraceHeaders  map[string]string
	OTLPMetricHeaders map[string]string
	ServiceName       string
	ServiceVer        string
	SamplingRatio     float64
	MetricsConsole    bool
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("supportdeck_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("supportdeck_port", 8080)
	v.SetDefault("supportdeck_public_url", "")
	v.SetDefault("supportdeck_cors_origins", "")
	v.SetDefault("supportdeck_db_path", "data/supportdeck")
	v.SetDefault("supportdeck_db_timing", false)
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("supportdeck_stripe_api_url", "")
	v.SetDefault("supportdeck_membership_token_ttl", "1h")
	v.SetDefault("supportdeck_membership_scope", "identity campaigns")
	v.SetDefault("supportdeck_creator_token", "mock_access_token")
	v.SetDefault("supportdeck_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_exporter_otlp_metrics_headers", "")
	v.SetDefault("otel_service_name", "supportdeck")
	v.SetDefault("supportdeck_version", "dev")
	v.SetDefault("otel_service_version", "")
	v.SetDefault("supportdeck_otel_sampling_ratio", 1.0)
	v.SetDefault("supportdeck_otel_metrics_console", false)

	env := resolveEnvironment(v)
	port := v.GetInt("supportdeck_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid SUPPORTDECK_PORT: %d", port)
	}

	samplingRatio := v.GetFloat64("supportdeck_otel_sampling_ratio")
	if samplingRatio < 0 {
		samplingRatio = 0
	}
	if samplingRatio > 1 {
		samplingRatio = 1
	}

	tokenTTL := v.GetDuration("supportdeck_membership_token_ttl")
	if tokenTTL <= 0 {
		return Config{}, fmt.Errorf("invalid SUPPORTDECK_MEMBERSHIP_TOKEN_TTL: %q", v.GetString("supportdeck_membership_token_ttl"))
	}

	creatorToken := strings.TrimSpace(v.GetString("supportdeck_creator_token"))
	if creatorToken == "" {
		return Config{}, fmt.Errorf("SUPPORTDECK_CREATOR_TOKEN must not be empty")
	}

	publicURL := strings.TrimRight(strings.TrimSpace(v.GetString("supportdeck_public_url")), "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%d", port)
	}

	serviceName := strings.TrimSpace(v.GetString("otel_service_name"))
	if serviceName == "" {
		serviceName = "supportdeck"
	}

	serviceVersion := strings.TrimSpace(v.GetString("supportdeck_version"))
	if serviceVersion == "" {
		serviceVersion = strings.TrimSpace(v.GetString("otel_service_version"))
	}
	if serviceVersion == "" {
		serviceVersion = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	otlpCommonHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers"))
	otlpTraceHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers"))
	otlpMetricHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_metrics_headers"))
	metricsConsole := v.GetBool("supportdeck_otel_metrics_console")
	otelEnabled := v.GetBool("supportdeck_otel_enabled") || otlpEndpoint != "" || metricsConsole

	cfg := Config{
		Environment: env,
		Server: ServerConfig{
			Port:        port,
			PublicURL:   publicURL,
			CORSOrigins: splitList(v.GetString("supportdeck_cors_origins")),
		},
		Database: DatabaseConfig{
			Path:      strings.TrimSpace(v.GetString("supportdeck_db_path")),
			LogTiming: v.GetBool("supportdeck_db_timing"),
		},
		Payments: PaymentsConfig{
			StripeSecretKey: strings.TrimSpace(v.GetString("stripe_secret_key")),
			StripeAPIURL:    strings.TrimSpace(v.GetString("supportdeck_stripe_api_url")),
		},
		Membership: MembershipConfig{
			TokenTTL: tokenTTL,
			Scope:    strings.TrimSpace(v.GetString("supportdeck_membership_scope")),
		},
		TipJar: TipJarConfig{CreatorToken: creatorToken},
		Observability: ObservabilityConfig{
			Enabled:           otelEnabled,
			OTLPEndpoint:      otlpEndpoint,
			OTLPTraceHeaders:  mergeHeaderMaps(otlpCommonHeaders, otlpTraceHeaders),
			OTLPMetricHeaders: mergeHeaderMaps(otlpCommonHeaders, otlpMetricHeaders),
			ServiceName:       serviceName,
			ServiceVer:        serviceVersion,
			SamplingRatio:     samplingRatio,
			MetricsConsole:    metricsConsole,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/supportdeck"
	}
	if !cfg.IsLocalDevelopment() && cfg.Payments.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required outside local/dev environments")
	}

	return cfg, nil
}

// UsesStripe reports whether intents are created on Stripe instead of the fixture provider.
func (c Config) UsesStripe() bool {
	return c.Payments.StripeSecretKey != ""
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"supportdeck_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
