package descriptor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/modboot/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestOpen_ReadsEveryFormatInOrder(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"modules.hcl": `
			module "alpha" {}
			module "beta" {}
			module "disabled" {
				enabled = false
			}
			module "alpha" {}
		`,
		"modules.yaml": "modules:\n  - alpha\n  - beta\n  - alpha\n",
		"modules.yml":  "modules: [alpha, beta, alpha]\n",
		"modules.xml": `<?xml version="1.0"?>
<modules>
	<module>alpha</module>
	<comment>ignored</comment>
	<module> beta </module>
	<module>alpha</module>
</modules>`,
	})

	for _, name := range []string{"modules.hcl", "modules.yaml", "modules.yml", "modules.xml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := Open(filepath.Join(dir, name))
			require.NoError(t, err)

			ids, err := src.ReadAll(context.Background())
			require.NoError(t, err)
			require.Equal(t, []string{"alpha", "beta", "alpha"}, ids, "duplicates and order must be preserved")
		})
	}
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := Open("modules.json")
	require.ErrorIs(t, err, ErrSourceUnreadable)
}

func TestReadAll_Unreadable(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"broken.hcl":    `module "alpha" {`,
		"unknown.hcl":   `plugin "alpha" {}`,
		"blank.hcl":     `module "" {}`,
		"broken.yaml":   "modules: [alpha\n",
		"blank.yaml":    "modules:\n  - alpha\n  - \"  \"\n",
		"broken.xml":    "<modules><module>alpha</module>",
		"wrongroot.xml": "<plugins><module>alpha</module></plugins>",
	})

	testCases := []string{
		"missing.hcl", "broken.hcl", "unknown.hcl", "blank.hcl",
		"missing.yaml", "broken.yaml", "blank.yaml",
		"missing.xml", "broken.xml", "wrongroot.xml",
	}

	for _, name := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := Open(filepath.Join(dir, name))
			require.NoError(t, err)

			ids, err := src.ReadAll(context.Background())
			require.ErrorIs(t, err, ErrSourceUnreadable)
			require.Nil(t, ids)
		})
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	src := Static{"alpha", "beta"}
	ids, err := src.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, ids)

	ids[0] = "mutated"
	require.Equal(t, "alpha", src[0], "ReadAll must return a copy")

	_, err = Static{"alpha", ""}.ReadAll(context.Background())
	require.ErrorIs(t, err, ErrSourceUnreadable)
}

func TestOpen_Directory(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"modules.d/10-core.hcl":     `module "alpha" {}`,
		"modules.d/20-extra.yaml":   "modules: [beta]\n",
		"modules.d/30-legacy/a.xml": "<modules><module>alpha</module></modules>",
		"modules.d/README.md":       "not a module list",
		"empty.d/README.md":         "",
		"broken.d/10-ok.hcl":        `module "alpha" {}`,
		"broken.d/20-broken.yaml":   "modules: {",
	})

	src, err := Open(filepath.Join(dir, "modules.d"))
	require.NoError(t, err)
	require.IsType(t, &Dir{}, src)

	ids, err := src.ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "alpha"}, ids)

	for _, name := range []string{"empty.d", "broken.d", "missing.d"} {
		_, err := NewDir(filepath.Join(dir, name)).ReadAll(context.Background())
		require.ErrorIs(t, err, ErrSourceUnreadable, name)
	}
}
