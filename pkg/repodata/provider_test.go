package repodata_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/repodex/pkg/config"
	"github.com/glorpus-work/repodex/pkg/repodata"
	"github.com/glorpus-work/repodex/pkg/repodata/mocks"
)

func testConfig(cachePath string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Channels = []string{"alpha"}
	cfg.Platforms = []string{"linux"}
	cfg.Settings.CachePath = cachePath
	return cfg
}

func alphaLinuxDoc() *repodata.Document {
	return &repodata.Document{
		Info: repodata.Info{Subdir: "linux-64"},
		Packages: map[string]repodata.PackageInfo{
			"p-1.0-h1_0.tar.bz2": {Build: "h1_0", BuildNumber: 0, Name: "p", Version: "1.0"},
		},
	}
}

func TestAcquire_BuildsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), "alpha", "linux").Return(alphaLinuxDoc(), nil).Times(1)

	provider := repodata.NewProvider(fetcher, nil, testConfig(""))

	first, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())

	second, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestAcquire_ConcurrentFirstAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockFetcher(ctrl)
	// Single-flight: ten concurrent callers, one build.
	fetcher.EXPECT().Fetch(gomock.Any(), "alpha", "linux").Return(alphaLinuxDoc(), nil).Times(1)

	provider := repodata.NewProvider(fetcher, nil, testConfig(""))

	var wg sync.WaitGroup
	indexes := make([]*repodata.Index, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx, err := provider.Acquire(context.Background())
			assert.NoError(t, err)
			indexes[i] = idx
		}(i)
	}
	wg.Wait()

	for _, idx := range indexes {
		assert.Same(t, indexes[0], idx)
	}
}

func TestAcquire_FailedBuildLeavesNoInstance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetchErr := fmt.Errorf("%w: 503 Service Unavailable for https://example.com", repodata.ErrFetchFailed)

	fetcher := mocks.NewMockFetcher(ctrl)
	gomock.InOrder(
		fetcher.EXPECT().Fetch(gomock.Any(), "alpha", "linux").Return(nil, fetchErr),
		fetcher.EXPECT().Fetch(gomock.Any(), "alpha", "linux").Return(alphaLinuxDoc(), nil),
	)

	provider := repodata.NewProvider(fetcher, nil, testConfig(""))

	idx, err := provider.Acquire(context.Background())
	require.Error(t, err)
	assert.Nil(t, idx)
	assert.ErrorIs(t, err, repodata.ErrFetchFailed)

	// The failed attempt must not be cached; the next one rebuilds.
	idx, err = provider.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestAcquire_PersistsAndRestoresCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "repodata.tsv")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), "alpha", "linux").Return(alphaLinuxDoc(), nil).Times(1)

	builder := repodata.NewProvider(fetcher, nil, testConfig(cachePath))
	built, err := builder.Acquire(context.Background())
	require.NoError(t, err)

	// A fresh provider over the same cache path must not touch the network:
	// the mock has no remaining expectations.
	restorer := repodata.NewProvider(mocks.NewMockFetcher(ctrl), nil, testConfig(cachePath))
	restored, err := restorer.Acquire(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, built.Records(), restored.Records())
}

func TestAcquire_CacheShortCircuitsNetwork(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "repodata.tsv")
	require.NoError(t, repodata.SaveTable(cachePath, []repodata.Record{
		{Build: "h9_3", BuildNumber: 3, Name: "q", Version: "0.9", Channel: "beta", Platform: "osx", Subdir: "osx-64"},
	}))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := repodata.NewProvider(mocks.NewMockFetcher(ctrl), nil, testConfig(cachePath))
	idx, err := provider.Acquire(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, idx.Len())
	assert.Equal(t, []string{"beta"}, idx.Channels("q", "0.9", nil))
}
