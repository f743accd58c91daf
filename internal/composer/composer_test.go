package composer

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func envOf(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func strPtr(s string) *string { return &s }

func TestBuildRuntimeConfigPassesValuesThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		get  func(PublicConfig) *string
	}{
		{"FirebaseAPIKey", EnvFirebaseAPIKey, func(p PublicConfig) *string { return p.FirebaseAPIKey }},
		{"FirebaseDatabaseURL", EnvFirebaseDatabaseURL, func(p PublicConfig) *string { return p.FirebaseDatabaseURL }},
		{"FirebaseProjectID", EnvFirebaseProjectID, func(p PublicConfig) *string { return p.FirebaseProjectID }},
		{"GoogleMapsAPIKey", EnvGoogleMapsAPIKey, func(p PublicConfig) *string { return p.GoogleMapsAPIKey }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			value := "  raw value/with?chars=1  "
			cfg := BuildRuntimeConfig(envOf(map[string]string{tc.key: value}))

			got := tc.get(cfg.Public)
			if got == nil {
				t.Fatalf("expected %s to be set", tc.key)
			}
			if *got != value {
				t.Fatalf("expected %q, got %q", value, *got)
			}
			if n := len(cfg.Public.Configured()); n != 1 {
				t.Fatalf("expected exactly one configured key, got %d", n)
			}
		})
	}
}

func TestBuildRuntimeConfigUnsetKeysStayPresent(t *testing.T) {
	t.Parallel()

	cfg := BuildRuntimeConfig(envOf(nil))

	m := cfg.Public.Map()
	if len(m) != 4 {
		t.Fatalf("expected 4 public keys, got %d", len(m))
	}
	for key, value := range m {
		if value != nil {
			t.Fatalf("expected %s to be unset, got %q", key, *value)
		}
	}

	data, err := json.Marshal(cfg.Public)
	if err != nil {
		t.Fatalf("marshal public config: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal public config: %v", err)
	}
	for _, key := range []string{"firebaseApiKey", "firebaseDatabaseUrl", "firebaseProjectId", "googleMapsApiKey"} {
		v, ok := decoded[key]
		if !ok {
			t.Fatalf("expected key %s in JSON output", key)
		}
		if v != nil {
			t.Fatalf("expected %s to be null, got %v", key, v)
		}
	}
}

func TestBuildRuntimeConfigEmptyValueIsSet(t *testing.T) {
	t.Parallel()

	cfg := BuildRuntimeConfig(envOf(map[string]string{EnvGoogleMapsAPIKey: ""}))
	if cfg.Public.GoogleMapsAPIKey == nil || *cfg.Public.GoogleMapsAPIKey != "" {
		t.Fatalf("expected empty but set value, got %v", cfg.Public.GoogleMapsAPIKey)
	}
}

func TestBuildRuntimeConfigNilLookup(t *testing.T) {
	t.Parallel()

	cfg := BuildRuntimeConfig(nil)
	if got := cfg.Public.Missing(); len(got) != 4 {
		t.Fatalf("expected all keys missing, got %v", got)
	}
}

func TestBuildModuleListIsFixed(t *testing.T) {
	t.Parallel()

	want := []string{
		"@nuxt/content",
		"@nuxt/eslint",
		"@nuxt/fonts",
		"@nuxt/icon",
		"@nuxt/image",
		"@nuxt/scripts",
		"@nuxt/test-utils",
		"@nuxt/ui",
	}
	got := BuildModuleList()
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// mutation must not leak into later calls
	got[0] = "changed"
	if again := BuildModuleList(); !slices.Equal(again, want) {
		t.Fatalf("expected fresh copy, got %v", again)
	}
}

func TestBuildStyleList(t *testing.T) {
	t.Parallel()

	got := BuildStyleList()
	if want := []string{"~/assets/css/main.css"}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBuildPipelineConfig(t *testing.T) {
	t.Parallel()

	got := BuildPipelineConfig()
	want := []PluginDescriptor{TailwindCSS()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected plugins (-want +got):\n%s", diff)
	}
	if got[0].Kind != KindTransform {
		t.Fatalf("expected transform plugin, got %s", got[0].Kind)
	}
}

func TestComposeIgnoresEnvironmentForFixedParts(t *testing.T) {
	t.Parallel()

	empty := Compose(envOf(nil))
	full := Compose(envOf(map[string]string{
		EnvFirebaseAPIKey:      "key",
		EnvFirebaseDatabaseURL: "https://db.example",
		EnvFirebaseProjectID:   "proj",
		EnvGoogleMapsAPIKey:    "maps",
	}))

	if !slices.Equal(empty.Modules, full.Modules) {
		t.Fatalf("module list depends on environment: %v vs %v", empty.Modules, full.Modules)
	}
	if !slices.Equal(empty.Styles, full.Styles) {
		t.Fatalf("style list depends on environment: %v vs %v", empty.Styles, full.Styles)
	}
	if empty.CompatibilityDate != "2024-11-01" || !empty.Devtools.Enabled {
		t.Fatalf("unexpected toggles: %q %v", empty.CompatibilityDate, empty.Devtools.Enabled)
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	t.Parallel()

	env := envOf(map[string]string{EnvFirebaseAPIKey: "abc"})
	first := Compose(env)
	second := Compose(env)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("records differ (-first +second):\n%s", diff)
	}
}

func TestComposeSingleProjectID(t *testing.T) {
	t.Parallel()

	rec := Compose(envOf(map[string]string{EnvFirebaseProjectID: "proj-123"}))

	want := PublicConfig{FirebaseProjectID: strPtr("proj-123")}
	if diff := cmp.Diff(want, rec.RuntimeConfig.Public); diff != "" {
		t.Fatalf("unexpected public config (-want +got):\n%s", diff)
	}
	if !slices.Equal(rec.Modules, BuildModuleList()) {
		t.Fatalf("unexpected modules %v", rec.Modules)
	}
	if !slices.Equal(rec.Styles, BuildStyleList()) {
		t.Fatalf("unexpected styles %v", rec.Styles)
	}
}

func TestFromEnvironmentReadsProcessEnv(t *testing.T) {
	t.Setenv(EnvFirebaseDatabaseURL, "https://example.firebaseio.com")

	rec := FromEnvironment()
	got := rec.RuntimeConfig.Public.FirebaseDatabaseURL
	if got == nil || *got != "https://example.firebaseio.com" {
		t.Fatalf("expected database url from environment, got %v", got)
	}
}

func TestRecordYAMLKeepsNullKeys(t *testing.T) {
	t.Parallel()

	data, err := yaml.Marshal(Compose(envOf(nil)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		RuntimeConfig struct {
			Public map[string]*string `yaml:"public"`
		} `yaml:"runtimeConfig"`
	}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.RuntimeConfig.Public) != 4 {
		t.Fatalf("expected 4 public keys in YAML, got %v", decoded.RuntimeConfig.Public)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	rec := Compose(envOf(map[string]string{EnvFirebaseAPIKey: "original"}))
	clone := rec.Clone()

	*clone.RuntimeConfig.Public.FirebaseAPIKey = "mutated"
	clone.Modules[0] = "mutated"
	clone.Styles[0] = "mutated"
	clone.AssetPipeline.Plugins[0].Name = "mutated"

	if *rec.RuntimeConfig.Public.FirebaseAPIKey != "original" {
		t.Fatalf("clone shares public config pointers")
	}
	if rec.Modules[0] == "mutated" || rec.Styles[0] == "mutated" || rec.AssetPipeline.Plugins[0].Name == "mutated" {
		t.Fatalf("clone shares slices")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Compose(envOf(nil)).Validate(); err != nil {
		t.Fatalf("composed record should validate, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{"DuplicateModule", func(r *Record) { r.Modules = append(r.Modules, r.Modules[0]) }, ErrDuplicateModule},
		{"EmptyStyle", func(r *Record) { r.Styles = append(r.Styles, " ") }, ErrEmptyStyle},
		{"MissingDate", func(r *Record) { r.CompatibilityDate = "" }, ErrMissingCompatibilityDate},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := Compose(envOf(nil))
			tc.mutate(&rec)
			if err := rec.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestResolveStyles(t *testing.T) {
	t.Parallel()

	root := filepath.Join("srv", "site")
	got := ResolveStyles([]string{"~/assets/css/main.css", "@/theme.css", "https://cdn.example/x.css"}, root)
	want := []string{
		filepath.Join(root, "assets", "css", "main.css"),
		filepath.Join(root, "theme.css"),
		"https://cdn.example/x.css",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEnvKeysOrder(t *testing.T) {
	t.Parallel()

	want := []string{EnvFirebaseAPIKey, EnvFirebaseDatabaseURL, EnvFirebaseProjectID, EnvGoogleMapsAPIKey}
	if got := EnvKeys(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
