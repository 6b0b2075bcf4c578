package debug

import (
	"encoding/json"
	"fmt"
	"os"
)

// Logf writes to stderr. Stringer values are rendered with String, maps
// and slices of any as indented JSON.
func Logf(msg string, args ...any) {
	for i, a := range args {
		switch x := a.(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case fmt.Stringer:
			args[i] = x.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
