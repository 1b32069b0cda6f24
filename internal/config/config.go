// Package config loads the compiler's configuration flags (spec.md
// §6) from three layered sources, lowest precedence first: compiled-in
// defaults, an optional midc.yaml file, and CLI flags bound by
// cmd/midc. Each later source overrides any field it sets explicitly.
package config

// Config holds every flag named in spec.md §6. Boolean fields default
// false; the three integer limits default to 0 ("unlimited"), matching
// the original compiler's own "0 means no limit" convention for these
// flags.
type Config struct {
	RuntimeOnly              bool `yaml:"runtime" flag:"runtime"`
	Local                    bool `yaml:"local" flag:"local"`
	NoBoundsChecks           bool `yaml:"no-bounds-checks" flag:"no-bounds-checks"`
	NoLocalChecks            bool `yaml:"no-local-checks" flag:"no-local-checks"`
	NoNilChecks              bool `yaml:"no-nil-checks" flag:"no-nil-checks"`
	NoCopyPropagation        bool `yaml:"no-copy-propagation" flag:"no-copy-propagation"`
	NoInline                 bool `yaml:"no-inline" flag:"no-inline"`
	NoRemoteValueForwarding  bool `yaml:"no-remote-value-forwarding" flag:"no-remote-value-forwarding"`
	NoTupleCopyOpt           bool `yaml:"no-tuple-copy-opt" flag:"no-tuple-copy-opt"`
	NoTupleCopyOptLimit      int  `yaml:"no-tuple-copy-opt-limit" flag:"no-tuple-copy-opt-limit"`
	Serial                   bool `yaml:"serial" flag:"serial"`
	SerialForall             bool `yaml:"serial-forall" flag:"serial-forall"`
	GPU                      bool `yaml:"gpu" flag:"gpu"`
	Heterogeneous            bool `yaml:"heterogeneous" flag:"heterogeneous"`
	NoMemoryFrees            bool `yaml:"no-memory-frees" flag:"no-memory-frees"`
	ScalarReplaceLimit       int  `yaml:"scalar-replace-limit" flag:"scalar-replace-limit"`
	TupleCopyLimit           int  `yaml:"tuple-copy-limit" flag:"tuple-copy-limit"`
	ConditionalDynamicDispatchLimit int `yaml:"conditional-dynamic-dispatch-limit" flag:"conditional-dynamic-dispatch-limit"`
	ExplainCallLine          int    `yaml:"explain-call-line" flag:"explain-call-line"`
	ExplainCallModule        string `yaml:"explain-call-module" flag:"explain-call-module"`

	OutDir string `yaml:"outdir" flag:"outdir"`
}

// Default returns the compiled-in defaults: every check enabled,
// every optimization enabled, no limits.
func Default() *Config {
	return &Config{OutDir: "."}
}
