package tracing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWithRunID_AssignsOnce(t *testing.T) {
	ctx := WithRunID(context.Background())
	runID := GetRunID(ctx)

	require.NotEmpty(t, runID)
	require.Equal(t, runID, GetRunID(WithRunID(ctx)))

	parsed, err := uuid.Parse(runID)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), parsed.Version())
}

func TestGetRunID_EmptyWithoutRun(t *testing.T) {
	require.Empty(t, GetRunID(context.Background()))
}
