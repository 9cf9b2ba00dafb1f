// Package config defines the server settings and loads them from an optional
// YAML file and CIRF_* environment variables, validating the result before
// any component starts.
package config
