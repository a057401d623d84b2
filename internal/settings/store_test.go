package settings

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/modboot/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

var (
	alphaType = reflect.TypeFor[*testutil.AlphaModule]()
	betaType  = reflect.TypeFor[*testutil.BetaModule]()
)

func newBoundStore(t *testing.T) (*Store, *testutil.AlphaParams, *testutil.BetaParams) {
	t.Helper()

	s := New()
	alpha := &testutil.AlphaParams{}
	require.NoError(t, alpha.SetDefaults())
	beta := &testutil.BetaParams{}
	require.NoError(t, s.SetModuleParameters(alphaType, alpha))
	require.NoError(t, s.SetModuleParameters(betaType, beta))
	return s, alpha, beta
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "github.com/specialistvlad/modboot/internal/testutil.AlphaModule", TypeName(alphaType))
	require.Equal(t, TypeName(alphaType), TypeName(alphaType.Elem()))
	require.Equal(t, "int", TypeName(reflect.TypeFor[int]()))
	require.Equal(t, "<nil>", TypeName(nil))
}

func TestSetModuleParameters_Rejections(t *testing.T) {
	t.Parallel()

	s := New()
	require.ErrorIs(t, s.SetModuleParameters(alphaType, nil), ErrStoreRejected)
	require.ErrorIs(t, s.SetModuleParameters(alphaType, testutil.AlphaParams{}), ErrStoreRejected)
	require.ErrorIs(t, s.SetModuleParameters(alphaType, (*testutil.AlphaParams)(nil)), ErrStoreRejected)
	require.ErrorIs(t, s.SetModuleParameters(nil, &testutil.AlphaParams{}), ErrStoreRejected)
	require.Zero(t, s.Len())
}

func TestSetModuleParameters_Overwrite(t *testing.T) {
	t.Parallel()

	s := New()
	first := &testutil.AlphaParams{Greeting: "first"}
	second := &testutil.AlphaParams{Greeting: "second"}
	require.NoError(t, s.SetModuleParameters(alphaType, first))
	require.NoError(t, s.SetModuleParameters(alphaType, second))

	got, ok := Parameters[testutil.AlphaParams](s, alphaType)
	require.True(t, ok)
	require.Same(t, second, got)
	require.Equal(t, 1, s.Len())
}

func TestLoadConfiguration_AppliesValues(t *testing.T) {
	t.Setenv("MODBOOT_TEST_GREETING", "from-env")

	// --- Arrange ---
	s, alpha, beta := newBoundStore(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"settings.hcl": `
			module "github.com/specialistvlad/modboot/internal/testutil.AlphaModule" {
				greeting = env.MODBOOT_TEST_GREETING
			}

			module "github.com/specialistvlad/modboot/internal/testutil.BetaModule" {
				enabled = true
				labels = { team = "core" }
			}

			module "github.com/example/unknown.Module" {
				anything = 1
			}
		`,
	})

	// --- Act ---
	err := s.LoadConfiguration(context.Background(), filepath.Join(dir, "settings.hcl"))

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, &testutil.AlphaParams{Greeting: "from-env", Retries: 3}, alpha, "unset attributes keep their defaults")
	if diff := cmp.Diff(&testutil.BetaParams{Enabled: true, Labels: map[string]string{"team": "core"}}, beta); diff != "" {
		t.Errorf("beta parameters mismatch (-want +got):\n%s", diff)
	}
	require.True(t, s.Finalized())
}

func TestLoadConfiguration_BadBlockLeavesParametersUntouched(t *testing.T) {
	t.Parallel()

	s, alpha, beta := newBoundStore(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"settings.hcl": `
			module "github.com/specialistvlad/modboot/internal/testutil.AlphaModule" {
				greeting = "changed"
				retries  = "not a number"
			}
			module "github.com/specialistvlad/modboot/internal/testutil.BetaModule" {
				enabled = true
			}
		`,
	})

	err := s.LoadConfiguration(context.Background(), filepath.Join(dir, "settings.hcl"))

	require.ErrorIs(t, err, ErrLoadFailed)
	require.Equal(t, &testutil.AlphaParams{Greeting: "hello", Retries: 3}, alpha)
	require.True(t, beta.Enabled, "valid blocks are still applied")
}

func TestLoadConfiguration_Failures(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"broken.hcl": `module "x" {`,
		"misspelled.hcl": `
			modul "github.com/specialistvlad/modboot/internal/testutil.AlphaModule" {
				greeting = "lost"
			}
		`,
		"stray.hcl": `greeting = "lost"`,
	})

	testCases := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.hcl")},
		{name: "syntax error", path: filepath.Join(dir, "broken.hcl")},
		{name: "misspelled block type", path: filepath.Join(dir, "misspelled.hcl")},
		{name: "top-level attribute", path: filepath.Join(dir, "stray.hcl")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, alpha, _ := newBoundStore(t)

			err := s.LoadConfiguration(context.Background(), tc.path)

			require.ErrorIs(t, err, ErrLoadFailed)
			require.Equal(t, "hello", alpha.Greeting)
			require.True(t, s.Finalized())
			require.ErrorIs(t, s.SetModuleParameters(alphaType, &testutil.AlphaParams{}), ErrStoreRejected)
		})
	}
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s, alpha, beta := newBoundStore(t)
	alpha.Greeting = "saved"
	beta.Labels = map[string]string{"env": "prod"}
	path := filepath.Join(t.TempDir(), "conf", "settings.hcl")

	// --- Act ---
	require.NoError(t, s.SaveConfiguration(context.Background(), path))

	// --- Assert ---
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `module "github.com/specialistvlad/modboot/internal/testutil.AlphaModule"`)

	reloaded := New()
	alpha2 := &testutil.AlphaParams{}
	beta2 := &testutil.BetaParams{}
	require.NoError(t, reloaded.SetModuleParameters(alphaType, alpha2))
	require.NoError(t, reloaded.SetModuleParameters(betaType, beta2))
	require.NoError(t, reloaded.LoadConfiguration(context.Background(), path))

	require.Equal(t, alpha, alpha2)
	require.Equal(t, beta, beta2)
}

func TestSaveConfiguration_MergesExistingFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s, alpha, _ := newBoundStore(t)
	alpha.Greeting = "saved"
	dir := testutil.WriteFiles(t, map[string]string{
		"settings.hcl": `# Hand-written settings.
module "github.com/example/unloaded.Module" {
  bucket = "kept" # not loaded in this run
}

module "github.com/specialistvlad/modboot/internal/testutil.AlphaModule" {
  greeting = "old"
}
`,
	})
	path := filepath.Join(dir, "settings.hcl")

	// --- Act ---
	require.NoError(t, s.SaveConfiguration(context.Background(), path))

	// --- Assert ---
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got := string(data)
	require.Contains(t, got, "# Hand-written settings.")
	require.Contains(t, got, "module \"github.com/example/unloaded.Module\" {\n  bucket = \"kept\" # not loaded in this run\n}")
	require.Equal(t, 1, strings.Count(got, `module "github.com/specialistvlad/modboot/internal/testutil.AlphaModule"`))
	require.Contains(t, got, `module "github.com/specialistvlad/modboot/internal/testutil.BetaModule"`)
	require.NotContains(t, got, `"old"`)

	reloaded := New()
	alpha2 := &testutil.AlphaParams{}
	require.NoError(t, reloaded.SetModuleParameters(alphaType, alpha2))
	require.NoError(t, reloaded.LoadConfiguration(context.Background(), path))
	require.Equal(t, alpha, alpha2)
}

func TestSaveConfiguration_UnparsableFileIsKept(t *testing.T) {
	t.Parallel()

	s, _, _ := newBoundStore(t)
	dir := testutil.WriteFiles(t, map[string]string{"settings.hcl": `module "x" {`})
	path := filepath.Join(dir, "settings.hcl")

	require.Error(t, s.SaveConfiguration(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `module "x" {`, string(data))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	s, _, _ := newBoundStore(t)

	val, err := s.Snapshot(alphaType)
	require.NoError(t, err)
	require.True(t, val.Type().IsObjectType())
	require.Equal(t, cty.StringVal("hello"), val.GetAttr("greeting"))
	require.True(t, val.GetAttr("retries").Equals(cty.NumberIntVal(3)).True())

	js, err := s.SnapshotJSON(alphaType)
	require.NoError(t, err)
	require.JSONEq(t, `{"greeting":"hello","retries":3}`, string(js))

	_, err = s.Snapshot(reflect.TypeFor[*testutil.NoParamsModule]())
	require.ErrorIs(t, err, ErrNotBound)
}
