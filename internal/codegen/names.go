package codegen

import "strings"

// cName maps an ir.Symbol's front-end name to a valid C identifier,
// replacing characters C identifiers can't carry (the front end's
// generated helper names already use '_' freely; '(' and ')' show up
// in primitive type names like "int(64)").
func cName(sym interface{ Name() string }) string {
	return sanitize(sym.Name())
}

func sanitize(name string) string {
	r := strings.NewReplacer("(", "_", ")", "", ",", "_", " ", "_")
	return r.Replace(name)
}
