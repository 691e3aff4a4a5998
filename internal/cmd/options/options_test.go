package options

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcat/internal/cmd"
	"github.com/mozilla-ai/mcpcat/internal/config"
)

type fakeLoader struct {
	config.Loader
}

type fakeInitializer struct {
	config.Initializer
}

type fakeBuilder struct {
	cmd.RegistryBuilder
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()

	require.NotNil(t, opts.ConfigLoader)
	require.NotNil(t, opts.ConfigInitializer)
	require.NotNil(t, opts.Clock)
	require.Nil(t, opts.RegistryBuilder)
}

func TestNewOptions_WithOverrides(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}
	initializer := &fakeInitializer{}
	builder := &fakeBuilder{}
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	opts, err := NewOptions(
		WithConfigLoader(loader),
		WithConfigInitializer(initializer),
		WithRegistryBuilder(builder),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	require.Equal(t, loader, opts.ConfigLoader)
	require.Equal(t, initializer, opts.ConfigInitializer)
	require.Equal(t, builder, opts.RegistryBuilder)
	require.Equal(t, now, opts.Clock())
}

func TestNewOptions_InvalidOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  CmdOption
		want string
	}{
		{name: "nil loader", opt: WithConfigLoader(nil), want: "config loader cannot be nil"},
		{name: "nil initializer", opt: WithConfigInitializer(nil), want: "config initializer cannot be nil"},
		{name: "nil clock", opt: WithClock(nil), want: "clock cannot be nil"},
		{name: "failing option", opt: func(*CmdOptions) error { return errors.New("fail") }, want: "fail"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewOptions(tc.opt)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestNewOptions_WithNilOption(t *testing.T) {
	t.Parallel()

	opts, err := NewOptions(nil)
	require.NoError(t, err)
	require.NotNil(t, opts.ConfigLoader)
}

func TestCmdOptions_Builder(t *testing.T) {
	t.Parallel()

	base := &cmd.BaseCmd{}

	opts, err := NewOptions()
	require.NoError(t, err)
	require.Same(t, base, opts.Builder(base))

	builder := &fakeBuilder{}
	opts, err = NewOptions(WithRegistryBuilder(builder))
	require.NoError(t, err)
	require.Same(t, builder, opts.Builder(base))
}
