package geo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citypick/internal/domain"
	"citypick/internal/geo"
	"citypick/internal/geo/geotest"
	"citypick/internal/metrics"
)

func TestInstrumentedPassesThroughAndCounts(t *testing.T) {
	fake := geotest.New()
	m := metrics.New()
	api := geo.NewInstrumented(fake, m, nil)

	cities, err := api.List(context.Background(), "440000")
	require.NoError(t, err)
	assert.Len(t, cities, 2)

	fake.Fail("search", errors.New("timeout"))
	_, err = api.Search(context.Background(), "shen")
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Lookups.WithLabelValues("list", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Lookups.WithLabelValues("search", "error")), 0)
}

func TestRegionLoaderBySource(t *testing.T) {
	fake := geotest.New()

	key, load, err := geo.RegionLoader(fake, domain.SourceForeign)
	require.NoError(t, err)
	assert.Equal(t, "regions:foreign", key)
	nodes, err := load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fake.Foreign, nodes)

	_, _, err = geo.RegionLoader(fake, "moon")
	assert.Error(t, err)
}
