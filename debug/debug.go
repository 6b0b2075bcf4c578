package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Normalize bool
	Element   bool
	Structure bool
	SAT       bool
	Oracle    bool
}

var d *debug

func init() {
	d = &debug{}
	all := boolEnv("TAXMAP_DEBUG_ALL")
	d.Normalize = all || boolEnv("TAXMAP_DEBUG_NORMALIZE")
	d.Element = all || boolEnv("TAXMAP_DEBUG_ELEMENT")
	d.Structure = all || boolEnv("TAXMAP_DEBUG_STRUCTURE")
	d.SAT = all || boolEnv("TAXMAP_DEBUG_SAT")
	d.Oracle = all || boolEnv("TAXMAP_DEBUG_ORACLE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Normalize() bool {
	return d.Normalize
}
func Element() bool {
	return d.Element
}
func Structure() bool {
	return d.Structure
}
func SAT() bool {
	return d.SAT
}
func Oracle() bool {
	return d.Oracle
}
