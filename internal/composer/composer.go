package composer

import "os"

const (
	compatibilityDate = "2024-11-01"
	devtoolsEnabled   = true
)

// Environment variables republished under the public runtime configuration.
const (
	EnvFirebaseAPIKey      = "VITE_FIREBASE_API_KEY"
	EnvFirebaseDatabaseURL = "VITE_FIREBASE_DATABASE_URL"
	EnvFirebaseProjectID   = "VITE_FIREBASE_PROJECT_ID"
	EnvGoogleMapsAPIKey    = "VITE_GOOGLE_MAPS_API_KEY"
)

var pluginFactories = []PluginFactory{
	TailwindCSS,
}

var styles = []string{
	"~/assets/css/main.css",
}

var modules = []string{
	"@nuxt/content",
	"@nuxt/eslint",
	"@nuxt/fonts",
	"@nuxt/icon",
	"@nuxt/image",
	"@nuxt/scripts",
	"@nuxt/test-utils",
	"@nuxt/ui",
}

// TailwindCSS is the factory for the Tailwind CSS pipeline plugin.
func TailwindCSS() PluginDescriptor {
	return PluginDescriptor{
		Name:    "tailwindcss",
		Package: "@tailwindcss/vite",
		Kind:    KindTransform,
	}
}

// EnvKeys returns the recognized environment variable names in publication order.
func EnvKeys() []string {
	return []string{
		EnvFirebaseAPIKey,
		EnvFirebaseDatabaseURL,
		EnvFirebaseProjectID,
		EnvGoogleMapsAPIKey,
	}
}

// BuildPipelineConfig invokes every registered plugin factory in order.
func BuildPipelineConfig() []PluginDescriptor {
	plugins := make([]PluginDescriptor, 0, len(pluginFactories))
	for _, factory := range pluginFactories {
		plugins = append(plugins, factory())
	}
	return plugins
}

// BuildStyleList returns the stylesheet paths in load order.
func BuildStyleList() []string {
	return cloneStrings(styles)
}

// BuildModuleList returns the feature modules in load order.
func BuildModuleList() []string {
	return cloneStrings(modules)
}

// BuildRuntimeConfig maps the recognized environment variables onto the public
// runtime configuration without transforming them. A nil lookup is treated as an
// empty environment.
func BuildRuntimeConfig(lookup LookupFunc) RuntimeConfig {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return RuntimeConfig{
		Public: PublicConfig{
			FirebaseAPIKey:      lookupPtr(lookup, EnvFirebaseAPIKey),
			FirebaseDatabaseURL: lookupPtr(lookup, EnvFirebaseDatabaseURL),
			FirebaseProjectID:   lookupPtr(lookup, EnvFirebaseProjectID),
			GoogleMapsAPIKey:    lookupPtr(lookup, EnvGoogleMapsAPIKey),
		},
	}
}

// Compose assembles the configuration record.
func Compose(lookup LookupFunc) Record {
	return Record{
		CompatibilityDate: compatibilityDate,
		Devtools:          Devtools{Enabled: devtoolsEnabled},
		AssetPipeline:     AssetPipeline{Plugins: BuildPipelineConfig()},
		Styles:            BuildStyleList(),
		RuntimeConfig:     BuildRuntimeConfig(lookup),
		Modules:           BuildModuleList(),
	}
}

// FromEnvironment composes the record from the process environment.
func FromEnvironment() Record {
	return Compose(os.LookupEnv)
}

func lookupPtr(lookup LookupFunc, key string) *string {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	return &value
}

func cloneStrings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
