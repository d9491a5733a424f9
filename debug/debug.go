package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Fetch   bool
	Compile bool
	Merge   bool
	Store   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Fetch = boolEnv("VIEWD_DEBUG_FETCH")
	d.Compile = boolEnv("VIEWD_DEBUG_COMPILE")
	d.Merge = boolEnv("VIEWD_DEBUG_MERGE")
	d.Store = boolEnv("VIEWD_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Fetch() bool {
	return d.Fetch
}
func Compile() bool {
	return d.Compile
}
func Merge() bool {
	return d.Merge
}
func Store() bool {
	return d.Store
}

// Logf writes to stderr, rendering maps and slices of records as
// indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch a.(type) {
		case map[string]any, []any, []map[string]any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case bool, string, float64, int:
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
