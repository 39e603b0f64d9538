package plugin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"entry","name":"Power","children":[{"name":"Reboot","actions":[{"name":"main","exec":"systemctl reboot"}]}]}`,
		`   `,
		`{"type":"options","page_size":10}`,
		`{"type":"options","placeholder":"Power"}`,
		`{"type":"Entry","actions":[{"name":"main","exec":{"echo":"hi"}}]}`,
	}, "\n")

	res, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.True(t, res.Entries[0].HasSubMenu())
	assert.Equal(t, "systemctl reboot", res.Entries[0].Children[0].Actions[0].Exec.Command)
	assert.Equal(t, 10, *res.Options.PageSize)
	assert.Equal(t, "Power", *res.Options.Placeholder)
	assert.Equal(t, "hi", res.Entries[1].Label())
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"unknown type":    `{"type":"widget","name":"x"}`,
		"no type or name": `{"comment":"x"}`,
		"empty entry":     `{"type":"entry"}`,
		"bad method":      `{"name":"x","actions":[{"name":"main","exec":{"launch":"x"}}]}`,
		"not json":        `hello`,
	}

	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(line + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestDecodeLineTooLong(t *testing.T) {
	long := `{"name":"` + strings.Repeat("x", MaxLineSize) + `"}`
	res, err := Decode(strings.NewReader(`{"name":"a"}` + "\n" + long + "\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Len(t, res.Entries, 1)
}
