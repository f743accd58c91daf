package composer

// PluginKind classifies a plugin descriptor.
type PluginKind string

// KindTransform marks plugins that rewrite sources in the asset pipeline.
const KindTransform PluginKind = "transform"

// PluginDescriptor is the value a plugin factory hands to the host's asset pipeline.
type PluginDescriptor struct {
	Name    string     `json:"name" yaml:"name"`
	Package string     `json:"package" yaml:"package"`
	Kind    PluginKind `json:"kind" yaml:"kind"`
}

// PluginFactory produces a plugin descriptor.
type PluginFactory func() PluginDescriptor

// LookupFunc reports the value of a named environment variable and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Devtools toggles the host's developer tooling.
type Devtools struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// AssetPipeline lists the build-time plugins installed into the host.
type AssetPipeline struct {
	Plugins []PluginDescriptor `json:"plugins" yaml:"plugins"`
}

// PublicConfig is the client-visible runtime configuration. A nil field means
// the backing variable was not set; encoders still emit the key as null.
type PublicConfig struct {
	FirebaseAPIKey      *string `json:"firebaseApiKey" yaml:"firebaseApiKey"`
	FirebaseDatabaseURL *string `json:"firebaseDatabaseUrl" yaml:"firebaseDatabaseUrl"`
	FirebaseProjectID   *string `json:"firebaseProjectId" yaml:"firebaseProjectId"`
	GoogleMapsAPIKey    *string `json:"googleMapsApiKey" yaml:"googleMapsApiKey"`
}

// RuntimeConfig groups runtime values handed to the host.
type RuntimeConfig struct {
	Public PublicConfig `json:"public" yaml:"public"`
}

// Record is the configuration record consumed by the host at startup.
type Record struct {
	CompatibilityDate string        `json:"compatibilityDate" yaml:"compatibilityDate"`
	Devtools          Devtools      `json:"devtools" yaml:"devtools"`
	AssetPipeline     AssetPipeline `json:"vite" yaml:"vite"`
	Styles            []string      `json:"css" yaml:"css"`
	RuntimeConfig     RuntimeConfig `json:"runtimeConfig" yaml:"runtimeConfig"`
	Modules           []string      `json:"modules" yaml:"modules"`
}
