// Package composer builds the static configuration record a pluggable web host
// consumes at startup: asset-pipeline plugins, stylesheet paths, feature modules,
// two framework toggles and the public runtime configuration sourced from the
// process environment.
//
// Composition is total and side-effect free apart from environment lookups, which
// go through a LookupFunc so callers decide where values come from.
package composer
