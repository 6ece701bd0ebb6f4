package helpers

import (
	// Go Internal Packages
	"bytes"
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFprintStruct(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FprintStruct(&buf, struct {
		Checked int `json:"checked"`
	}{Checked: 2}))
	assert.Equal(t, "{\n  \"checked\": 2\n}\n", buf.String())

	assert.Error(t, FprintStruct(&buf, make(chan int)))
}
