package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/repository"
)

func TestStub_GetAndSave(t *testing.T) {
	repo := repository.New()

	require.NoError(t, repo.Get(context.Background(), "device-1"))
	require.NoError(t, repo.Save(context.Background(), "device-1"))
}
