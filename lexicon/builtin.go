package lexicon

import (
	_ "embed"
)

//go:embed data/core.yaml
var coreYAML []byte

// Builtin returns the small general purpose dictionary shipped with the
// module.
func Builtin() (*Dictionary, error) {
	return ParseDictionary(coreYAML)
}
