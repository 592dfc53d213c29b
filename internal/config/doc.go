// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Configuration is built in layers, each overriding the previous one:
//
//  1. Default values
//  2. A YAML file (PAINEL_CONFIG, or config.yaml / configs/config.yaml)
//  3. Environment variables (highest priority)
//
// # Environment Variables
//
// Variables are namespaced with PAINEL_ followed by the section name:
//
//	PAINEL_SERVER_PORT=8080
//	PAINEL_UPLOAD_MAX_BYTES=10485760
//	PAINEL_CACHE_TTL=2h
//	PAINEL_LAYOUT_MARKER_LABEL=Pre-Class
//	PAINEL_LOGGING_LEVEL=debug
//
// # Gradebook Layout
//
// The Layout section fixes which zero-based columns hold the student
// fields and where the repeating session blocks start. The defaults match
// the school's attendance workbook; Layout.Gradebook converts it for the
// extractor.
//
// # Validation
//
// Load validates ranges and the layout, and forces JSON logging.
package config
