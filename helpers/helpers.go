package helpers

import (
	// Go Internal Packages
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PrintStruct prints a givens struct in pretty format with indent
func PrintStruct(v any) {
	_ = FprintStruct(os.Stdout, v)
}

// FprintStruct is PrintStruct writing to w
func FprintStruct(w io.Writer, v any) error {
	res, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(res))
	return err
}
