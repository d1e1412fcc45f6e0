package gen

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("// Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "// Custom header", c.Header)
	})

	t.Run("empty header falls back to the default", func(t *testing.T) {
		c, err := NewConfig(WithHeader(""))

		require.NoError(t, err)
		assert.Equal(t, DefaultHeader, c.Header)
	})
}

func TestWithTarget(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTarget("out")(c))
	assert.Equal(t, "out", c.Target)

	err := WithTarget("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithWorkers(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"one", 1, false},
		{"many", 16, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithWorkers(tt.n)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, c.Workers)
		})
	}
}

func TestWithCapabilities(t *testing.T) {
	t.Run("deduplicates", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithCapabilities("stringer", "compare", "stringer")(c))
		assert.Equal(t, []string{"stringer", "compare"}, c.Capabilities)
		assert.True(t, c.Enabled("compare"))
	})

	t.Run("unknown capability", func(t *testing.T) {
		c := &Config{}
		err := WithCapabilities("hash")(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrUnknownCapability.Error())
		assert.Contains(t, err.Error(), "hash")
	})

	t.Run("all capabilities run by default", func(t *testing.T) {
		c := &Config{}
		assert.True(t, c.Enabled("compare"))
		assert.True(t, c.Enabled("stringer"))
	})

	t.Run("restricted", func(t *testing.T) {
		c := &Config{Capabilities: []string{"compare"}}
		assert.False(t, c.Enabled("stringer"))
	})
}

func TestWithLogger(t *testing.T) {
	c := &Config{}
	require.Error(t, WithLogger(nil)(c))

	logger := zap.NewExample()
	require.NoError(t, WithLogger(logger)(c))
	assert.Same(t, logger, c.Logger)
}

func TestWithCacheAndSink(t *testing.T) {
	c := &Config{}
	require.Error(t, WithCache("")(c))
	require.NoError(t, WithCache("derive.cache")(c))
	assert.Equal(t, "derive.cache", c.CachePath)

	require.Error(t, WithSink(nil)(c))
	sink := NewMemorySink()
	require.NoError(t, WithSink(sink)(c))
	assert.Same(t, sink, c.Sink)
}

func TestWithBuildFlagsAndDryRun(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithBuildFlags("-tags=a")(c))
	require.NoError(t, WithBuildFlags("-tags=b")(c))
	require.NoError(t, WithDryRun(true)(c))
	assert.Equal(t, []string{"-tags=a", "-tags=b"}, c.BuildFlags)
	assert.Equal(t, OutputConfig{Header: "", DryRun: true}, c.Output())
}

func TestConfig_Apply(t *testing.T) {
	t.Run("stops at the first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithTarget("out"), WithWorkers(0), WithHeader("h"))
		require.Error(t, err)
		assert.Equal(t, "out", c.Target)
		assert.Empty(t, c.Header)
	})

	t.Run("ApplyAll collects every error", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithTarget(""), WithWorkers(0), WithHeader("h"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Target")
		assert.Contains(t, err.Error(), "Workers")
		assert.Equal(t, "h", c.Header)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
		assert.NotNil(t, c.Logger)
	})

	t.Run("error", func(t *testing.T) {
		c, err := NewConfig(WithWorkers(-2))
		require.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithTarget("")) })
	})
}
