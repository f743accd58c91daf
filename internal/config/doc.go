// Package config loads settings for the siteconf process (YAML files, environment
// variables, CLI flags) with precedence: CLI flags > YAML config > Environment
// variables > Defaults. The public runtime values republished to the host are not
// read here; see package composer.
package config
