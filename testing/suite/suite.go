package suite

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/rocketscienceinc/tictactoe-learner/internal/repository/storage"
)

const (
	containerTTL = 120
	startTimeout = 120 * time.Second
)

const (
	redisPort       = "6379/tcp"
	redisImage      = "redis"
	defaultRedisTag = "7-alpine"
	redisTagEnv     = "SUITE_REDIS_TAG"
)

// Suite holds a redis server that lives as long as one test.
type Suite struct {
	*testing.T

	Redis *storage.RedisStorage
	Host  string
	Port  string
}

// New starts a throwaway redis container and opens it through
// storage.NewRedisStorage. The test is skipped in short mode or when no docker
// daemon is reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("redis suite needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	tag := os.Getenv(redisTagEnv)
	if tag == "" {
		tag = defaultRedisTag
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        tag,
		Cmd:        []string{"redis-server", "--save", "", "--appendonly", "no"},
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis %s: %v", tag, err)
	}

	_ = resource.Expire(containerTTL)

	host, port, err := net.SplitHostPort(resource.GetHostPort(redisPort))
	if err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not parse redis address: %v", err)
	}

	// redis accepts connections a moment after the container is up
	pool.MaxWait = startTimeout

	var redisStorage *storage.RedisStorage
	if err = pool.Retry(func() error {
		var openErr error
		redisStorage, openErr = storage.NewRedisStorage(ctx, net.JoinHostPort(host, port))
		return openErr
	}); err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		if err := redisStorage.Close(); err != nil {
			t.Errorf("could not close redis: %v", err)
		}

		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:     t,
		Redis: redisStorage,
		Host:  host,
		Port:  port,
	}
}
