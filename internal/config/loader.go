package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// LoadYAML reads path (typically midc.yaml) and overlays its values
// onto cfg. A missing file is not an error — the defaults stand — but
// a malformed one is.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	applyRaw(cfg, raw)
	return nil
}

// applyRaw overlays loosely-typed YAML scalars onto cfg, normalizing
// each with spf13/cast since a YAML author may write `gpu: "true"` or
// `gpu: 1` as readily as `gpu: true`.
func applyRaw(cfg *Config, raw map[string]interface{}) {
	boolField := func(key string, dst *bool) {
		if v, ok := raw[key]; ok {
			*dst = cast.ToBool(v)
		}
	}
	intField := func(key string, dst *int) {
		if v, ok := raw[key]; ok {
			*dst = cast.ToInt(v)
		}
	}
	strField := func(key string, dst *string) {
		if v, ok := raw[key]; ok {
			*dst = cast.ToString(v)
		}
	}

	boolField("runtime", &cfg.RuntimeOnly)
	boolField("local", &cfg.Local)
	boolField("no-bounds-checks", &cfg.NoBoundsChecks)
	boolField("no-local-checks", &cfg.NoLocalChecks)
	boolField("no-nil-checks", &cfg.NoNilChecks)
	boolField("no-copy-propagation", &cfg.NoCopyPropagation)
	boolField("no-inline", &cfg.NoInline)
	boolField("no-remote-value-forwarding", &cfg.NoRemoteValueForwarding)
	boolField("no-tuple-copy-opt", &cfg.NoTupleCopyOpt)
	intField("no-tuple-copy-opt-limit", &cfg.NoTupleCopyOptLimit)
	boolField("serial", &cfg.Serial)
	boolField("serial-forall", &cfg.SerialForall)
	boolField("gpu", &cfg.GPU)
	boolField("heterogeneous", &cfg.Heterogeneous)
	boolField("no-memory-frees", &cfg.NoMemoryFrees)
	intField("scalar-replace-limit", &cfg.ScalarReplaceLimit)
	intField("tuple-copy-limit", &cfg.TupleCopyLimit)
	intField("conditional-dynamic-dispatch-limit", &cfg.ConditionalDynamicDispatchLimit)
	intField("explain-call-line", &cfg.ExplainCallLine)
	strField("explain-call-module", &cfg.ExplainCallModule)
	strField("outdir", &cfg.OutDir)
}

// BindPFlags registers every Config field against a pflag.FlagSet, so
// that flags parsed from it overwrite the values already in cfg
// (midc.yaml over compiled-in defaults). No cmd/midc subcommand calls
// it; the subcommands register only their own flags.
func BindPFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.BoolVar(&cfg.RuntimeOnly, "runtime", cfg.RuntimeOnly, "build the runtime support files only")
	flags.BoolVar(&cfg.Local, "local", cfg.Local, "assume a single locale")
	flags.BoolVar(&cfg.NoBoundsChecks, "no-bounds-checks", cfg.NoBoundsChecks, "disable array bounds checks")
	flags.BoolVar(&cfg.NoLocalChecks, "no-local-checks", cfg.NoLocalChecks, "disable local-block locale checks")
	flags.BoolVar(&cfg.NoNilChecks, "no-nil-checks", cfg.NoNilChecks, "disable nil-dereference checks")
	flags.BoolVar(&cfg.NoCopyPropagation, "no-copy-propagation", cfg.NoCopyPropagation, "disable copy propagation")
	flags.BoolVar(&cfg.NoInline, "no-inline", cfg.NoInline, "disable function inlining")
	flags.BoolVar(&cfg.NoRemoteValueForwarding, "no-remote-value-forwarding", cfg.NoRemoteValueForwarding, "disable remote value forwarding")
	flags.BoolVar(&cfg.NoTupleCopyOpt, "no-tuple-copy-opt", cfg.NoTupleCopyOpt, "disable tuple copy optimization")
	flags.IntVar(&cfg.NoTupleCopyOptLimit, "no-tuple-copy-opt-limit", cfg.NoTupleCopyOptLimit, "tuple copy optimization size limit (0 = unlimited)")
	flags.BoolVar(&cfg.Serial, "serial", cfg.Serial, "lower all parallel constructs to serial code")
	flags.BoolVar(&cfg.SerialForall, "serial-forall", cfg.SerialForall, "lower forall loops to serial code")
	flags.BoolVar(&cfg.GPU, "gpu", cfg.GPU, "enable GPU kernel lowering")
	flags.BoolVar(&cfg.Heterogeneous, "heterogeneous", cfg.Heterogeneous, "emit the heterogeneous type-structure tables")
	flags.BoolVar(&cfg.NoMemoryFrees, "no-memory-frees", cfg.NoMemoryFrees, "never emit heap frees (debugging aid)")
	flags.IntVar(&cfg.ScalarReplaceLimit, "scalar-replace-limit", cfg.ScalarReplaceLimit, "scalar replacement size limit (0 = unlimited)")
	flags.IntVar(&cfg.TupleCopyLimit, "tuple-copy-limit", cfg.TupleCopyLimit, "tuple copy size limit (0 = unlimited)")
	flags.IntVar(&cfg.ConditionalDynamicDispatchLimit, "conditional-dynamic-dispatch-limit", cfg.ConditionalDynamicDispatchLimit, "override-count limit before falling back to a vtable (0 = unlimited)")
	flags.IntVar(&cfg.ExplainCallLine, "explain-call-line", cfg.ExplainCallLine, "source line of the call site to explain")
	flags.StringVar(&cfg.ExplainCallModule, "explain-call-module", cfg.ExplainCallModule, "module of the call site to explain")
	flags.StringVar(&cfg.OutDir, "outdir", cfg.OutDir, "output directory for emitted files")
}

// Load builds a Config from compiled-in defaults overlaid with
// yamlPath (if it exists). It applies no CLI flags.
func Load(yamlPath string) (*Config, error) {
	cfg := Default()
	if yamlPath != "" {
		if err := LoadYAML(cfg, yamlPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
