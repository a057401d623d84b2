package catalog_test

import (
	"reflect"
	"testing"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstantiate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		id          string
		expectType  reflect.Type
		expectErrIs error
	}{
		{name: "valid module", id: "alpha", expectType: reflect.TypeFor[*testutil.AlphaModule]()},
		{name: "module without parameters still instantiates", id: "noparams", expectType: reflect.TypeFor[*testutil.NoParamsModule]()},
		{name: "unknown identifier", id: "does-not-exist", expectErrIs: catalog.ErrUnknownType},
		{name: "value without module contract", id: "notamodule", expectErrIs: catalog.ErrNotAModule},
		{name: "factory error", id: "failing", expectErrIs: catalog.ErrConstructionFailed},
		{name: "factory panic", id: "panicking", expectErrIs: catalog.ErrConstructionFailed},
		{name: "typed nil result", id: "nil", expectErrIs: catalog.ErrConstructionFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := testutil.NewCatalog()

			moduleType, m, err := c.Instantiate(tc.id)

			if tc.expectErrIs != nil {
				require.ErrorIs(t, err, tc.expectErrIs)
				require.Nil(t, m)
				require.Nil(t, moduleType)

				var instErr *catalog.InstantiationError
				require.ErrorAs(t, err, &instErr)
				require.Equal(t, tc.id, instErr.Identifier)
				require.Contains(t, err.Error(), tc.id)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectType, moduleType)
			require.Equal(t, tc.expectType, reflect.TypeOf(m))
		})
	}
}

func TestInstantiate_FactoryErrorIsWrapped(t *testing.T) {
	t.Parallel()

	_, _, err := testutil.NewCatalog().Instantiate("failing")
	require.ErrorIs(t, err, testutil.ErrFactory)
}

func TestInstantiate_FreshInstanceEachCall(t *testing.T) {
	t.Parallel()

	c := testutil.NewCatalog()
	_, first, err := c.Instantiate("alpha")
	require.NoError(t, err)
	_, second, err := c.Instantiate("alpha")
	require.NoError(t, err)

	require.NotSame(t, first, second)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	t.Parallel()

	c := testutil.NewCatalog()
	require.PanicsWithValue(t, "catalog: module 'alpha' already registered", func() {
		c.Register("alpha", func() (any, error) { return &testutil.AlphaModule{}, nil })
	})
	require.Panics(t, func() { c.Register("", func() (any, error) { return nil, nil }) })
	require.Panics(t, func() { c.Register("other", nil) })
}

func TestIdentifiers_Sorted(t *testing.T) {
	t.Parallel()

	c := catalog.New()
	catalog.RegisterModule(c, "zeta", func() *testutil.BetaModule { return &testutil.BetaModule{} })
	catalog.RegisterModule(c, "alpha", func() *testutil.AlphaModule { return &testutil.AlphaModule{} })

	require.Equal(t, []string{"alpha", "zeta"}, c.Identifiers())
}
