package codegen

import (
	"fmt"
	"reflect"

	"github.com/pgasc/midc/internal/config"
)

// emitConfig writes _config.c: one chpl_install_config_* call per
// flag in config.Config, generated by reflecting over the fields'
// `flag` struct tags, so a new tagged field is installed here without
// a second edit. internal/config's YAML overlay and BindPFlags list
// their keys by hand and are not derived from these tags.
func emitConfig(out *Output, cfg *config.Config) {
	f := out.file("_config.c")
	f.append("#include \"chpl__header.h\"\n\nvoid chpl_install_config(void) {\n")
	if cfg == nil {
		f.append("}\n")
		return
	}
	v := reflect.ValueOf(*cfg)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("flag")
		if name == "" {
			continue
		}
		val := v.Field(i)
		switch val.Kind() {
		case reflect.Bool:
			f.append(fmt.Sprintf("  chpl_install_config_bool(%q, %v);\n", name, val.Bool()))
		case reflect.Int:
			f.append(fmt.Sprintf("  chpl_install_config_int(%q, %d);\n", name, val.Int()))
		case reflect.String:
			if s := val.String(); s != "" {
				f.append(fmt.Sprintf("  chpl_install_config_string(%q, %q);\n", name, s))
			}
		}
	}
	f.append("}\n")
}
