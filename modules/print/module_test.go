package print

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/stretchr/testify/require"
)

func TestPrint_SortedWithDefaults(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := New().Print(out, nil, Pairs(map[string]string{"b": "2", "a": "1"}))

	require.NoError(t, err)
	require.Equal(t, "      a = \"1\"\n      b = \"2\"\n", out.String())
}

func TestPrint_KeepsGivenOrderWhenUnsorted(t *testing.T) {
	t.Parallel()

	pairs := []Pair{{"zeta", "1"}, {"alpha", "2"}, {"mid", "3"}, {"alpha", "4"}}
	p := DefaultParams()
	p.SortKeys = false

	for range 20 {
		out := &bytes.Buffer{}
		require.NoError(t, New().Print(out, p, pairs))
		require.Equal(t, "      zeta = \"1\"\n      alpha = \"2\"\n      mid = \"3\"\n      alpha = \"4\"\n", out.String())
	}

	out := &bytes.Buffer{}
	require.NoError(t, New().Print(out, nil, pairs))
	require.Equal(t, "      alpha = \"2\"\n      alpha = \"4\"\n      mid = \"3\"\n      zeta = \"1\"\n", out.String(), "sorting is stable")
	require.Equal(t, "zeta", pairs[0].Key, "the caller's slice is not reordered")
}

func TestPrint_CustomParams(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	p := &Params{Indent: "> ", SortKeys: true, NullText: "nothing"}

	require.NoError(t, New().Print(out, p, nil))
	require.Equal(t, "> nothing\n", out.String())
}

func TestPlugin_Registers(t *testing.T) {
	t.Parallel()

	moduleType, m, err := catalog.New(Plugin{}).Instantiate(Identifier)

	require.NoError(t, err)
	require.IsType(t, &Module{}, m)
	require.Equal(t, "*print.Module", moduleType.String())
	require.Equal(t, "Params", m.ParameterSetType().Name())
}
