// Package config provides centralized configuration management for the
// market scoring service. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MSASCORE_* for namespacing:
//
//	MSASCORE_SERVER_PORT=8080
//	MSASCORE_LOGGING_LEVEL=info
//	MSASCORE_ENGINE_P_LOW=0.05
//	MSASCORE_ENGINE_RISK_STRICT=true
//	MSASCORE_ENGINE_THRESHOLDS=20,40,60,80
//
// # Validation
//
// All configuration is validated at load time: server port and timeouts,
// winsorization bounds, bucket thresholds, the risk multiplier range and the
// missing-data mode. A process never starts with an engine configuration the
// scoring package would reject at run time.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
