package composer

import (
	"fmt"
	"path/filepath"
	"strings"
)

var rootAliases = []string{"~/", "@/"}

// Map returns the public configuration keyed by its wire names. All four keys are
// always present.
func (p PublicConfig) Map() map[string]*string {
	return map[string]*string{
		"firebaseApiKey":      p.FirebaseAPIKey,
		"firebaseDatabaseUrl": p.FirebaseDatabaseURL,
		"firebaseProjectId":   p.FirebaseProjectID,
		"googleMapsApiKey":    p.GoogleMapsAPIKey,
	}
}

// Configured returns the wire names of fields that hold a value, in publication order.
func (p PublicConfig) Configured() []string {
	return p.keys(true)
}

// Missing returns the wire names of fields with no value, in publication order.
func (p PublicConfig) Missing() []string {
	return p.keys(false)
}

func (p PublicConfig) keys(set bool) []string {
	fields := []struct {
		name  string
		value *string
	}{
		{"firebaseApiKey", p.FirebaseAPIKey},
		{"firebaseDatabaseUrl", p.FirebaseDatabaseURL},
		{"firebaseProjectId", p.FirebaseProjectID},
		{"googleMapsApiKey", p.GoogleMapsAPIKey},
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if (f.value != nil) == set {
			out = append(out, f.name)
		}
	}
	return out
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.AssetPipeline.Plugins = make([]PluginDescriptor, len(r.AssetPipeline.Plugins))
	copy(out.AssetPipeline.Plugins, r.AssetPipeline.Plugins)
	out.Styles = cloneStrings(r.Styles)
	out.Modules = cloneStrings(r.Modules)

	pub := &out.RuntimeConfig.Public
	pub.FirebaseAPIKey = clonePtr(r.RuntimeConfig.Public.FirebaseAPIKey)
	pub.FirebaseDatabaseURL = clonePtr(r.RuntimeConfig.Public.FirebaseDatabaseURL)
	pub.FirebaseProjectID = clonePtr(r.RuntimeConfig.Public.FirebaseProjectID)
	pub.GoogleMapsAPIKey = clonePtr(r.RuntimeConfig.Public.GoogleMapsAPIKey)
	return out
}

// Validate checks the parts of the record the host relies on. Composition never
// calls it; a record from Compose always passes.
func (r Record) Validate() error {
	if strings.TrimSpace(r.CompatibilityDate) == "" {
		return ErrMissingCompatibilityDate
	}

	for i, style := range r.Styles {
		if strings.TrimSpace(style) == "" {
			return fmt.Errorf("style %d: %w", i, ErrEmptyStyle)
		}
	}

	seen := make(map[string]struct{}, len(r.Modules))
	for _, module := range r.Modules {
		if _, ok := seen[module]; ok {
			return fmt.Errorf("%q: %w", module, ErrDuplicateModule)
		}
		seen[module] = struct{}{}
	}
	return nil
}

// ResolveStyles expands project-root aliases in stylesheet paths against root.
// Paths without an alias are returned as-is and order is preserved.
func ResolveStyles(paths []string, root string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p
		for _, alias := range rootAliases {
			if strings.HasPrefix(p, alias) {
				out[i] = filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, alias)))
				break
			}
		}
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
