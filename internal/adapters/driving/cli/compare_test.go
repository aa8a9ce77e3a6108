package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestCompareCmd_PrintsComparison(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "compare", "a.txt", "b.txt")

	require.NoError(t, err)
	assert.Contains(t, out, "Comparing [a.txt b.txt] (aspect: general)")
	assert.Contains(t, out, "Both documents cover refunds.")
}

func TestCompareCmd_ListsAvailableDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { compareList = false }()

	out, err := execute(t, "compare", "--list")

	require.NoError(t, err)
	assert.Contains(t, out, "Available documents:")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "b.txt")
}

func TestCompareCmd_InsufficientDataIsUserFacing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	compareService = &stubComparer{err: &domain.InsufficientDataError{Found: []string{"a.txt"}}}

	out, err := execute(t, "compare", "a.txt", "ghost.txt")

	require.NoError(t, err, "missing documents should not be a command failure")
	assert.Contains(t, out, "found: [a.txt]")
	assert.Contains(t, out, "recall compare --list")
}
