package testutil

import (
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultRedisPort = "6379/tcp"
	startupTimeout   = 60 * time.Second
)

type RedisTestContainer struct {
	Container testcontainers.Container
	Host      string
	Port      nat.Port
}

func (c *RedisTestContainer) Address() string {
	return c.Host + ":" + c.Port.Port()
}

func SetupRedisContainer(t *testing.T) *RedisTestContainer {
	t.Helper()

	ctx := t.Context()

	//nolint:exhaustruct
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{defaultRedisPort},
		WaitingFor:   wait.ForListeningPort(defaultRedisPort).WithStartupTimeout(startupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		ProviderType:     testcontainers.ProviderDocker,
		Logger:           &log.Logger,
		Reuse:            false,
	})

	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &RedisTestContainer{
		Container: container,
		Host:      host,
		Port:      port,
	}
}
