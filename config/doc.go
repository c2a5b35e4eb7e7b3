// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including probe timing, classification thresholds, target lists and logging.
package config
