// Package config loads newsdesk configuration from YAML.
//
// The file lives at $XDG_CONFIG_HOME/newsdesk/config.yaml unless a path is
// given. ${VAR} references are expanded from the environment before
// parsing. Unset fields take the Default* values.
package config
