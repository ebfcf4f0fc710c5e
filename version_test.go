package gconfig_test

import (
	"testing"

	"github.com/0xalexb/gconfig"

	"github.com/stretchr/testify/require"
)

func TestVersion_DefaultValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dev", gconfig.Version)
	require.Equal(t, "none", gconfig.Commit)
	require.Equal(t, "unknown", gconfig.CompiledAt)
}
