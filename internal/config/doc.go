// Package config resolves rdvwatch's runtime configuration from
// environment variables (with optional .env support) and a YAML source
// catalogue listing the pages to watch.
package config
