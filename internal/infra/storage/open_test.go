package storage

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/memory"
)

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpenMemory(t *testing.T) {
	store, closeFn, err := Open(context.Background(), config.Config{StoreDriver: config.DriverMemory}, quiet())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &memory.LeadRepository{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{StoreDriver: "cassandra"}, quiet())
	assert.ErrorContains(t, err, "cassandra")
}
