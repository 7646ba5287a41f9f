package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/app"
)

// RunHCLCompositionTest builds an app from a single composition file and
// fails the test if startup does not succeed.
func RunHCLCompositionTest(t *testing.T, compositionHCL string, opts ...ConfigOption) *app.App {
	t.Helper()
	result := RunIntegrationTest(t, map[string]string{
		"composition/main.hcl": compositionHCL,
	}, opts...)
	require.NoError(t, result.Err)
	require.NotNil(t, result.App)
	return result.App
}
