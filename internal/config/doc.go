// Package config provides configuration loading, merging and typed access
// for the application.
//
// Configuration is a key/value mapping assembled from multiple sources in
// the following priority order (later sources override earlier keys):
//  1. The packaged default file (captcha.cfg.example)
//  2. The deployment file named by CAPTCHA_API_CONFIG
//  3. The caller-supplied override mapping
//
// Files are YAML (.yaml, .yml), JSON (.json) or the Python style
// "KEY = value" format used by existing deployments, run as Starlark.
package config
