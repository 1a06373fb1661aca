package main

import (
	"encoding/json"
	"io"
)

// jsonOutput is bound to every command's --json flag.
var jsonOutput bool

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
