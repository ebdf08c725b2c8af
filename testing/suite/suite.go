package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/monopoly-backend/internal/repository/storage"
)

const (
	redisImage = "redis"
	redisTag   = "7-alpine"
	redisPort  = "6379/tcp"

	// seconds before docker kills a container the cleanup never reached
	containerLifetime = 120
	readyTimeout      = 120 * time.Second
)

// Suite gives a test its own empty redis. The container is purged when the test ends.
type Suite struct {
	*testing.T

	Storage *redis.Client
}

// New starts redis in docker and returns a client connected through the game storage layer.
// Tests are skipped when no docker daemon is reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not create docker pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	pool.MaxWait = readyTimeout

	resource := runRedis(t, pool)
	redisStorage := connect(ctx, t, pool, resource)

	t.Cleanup(func() {
		_ = redisStorage.Close()

		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Storage: redisStorage.Connection,
	}
}

func runRedis(t *testing.T, pool *dockertest.Pool) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	_ = resource.Expire(containerLifetime)

	return resource
}

// connect retries until redis answers a ping, then hands back an empty database.
func connect(ctx context.Context, t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource) *storage.RedisStorage {
	t.Helper()

	addr := resource.GetHostPort(redisPort)

	var redisStorage *storage.RedisStorage
	err := pool.Retry(func() error {
		var connErr error
		redisStorage, connErr = storage.NewRedisStorage(ctx, addr, "", 0)
		return connErr
	})
	if err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("redis at %s never became ready: %v", addr, err)
	}

	if err = redisStorage.Connection.FlushDB(ctx).Err(); err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not flush redis: %v", err)
	}

	return redisStorage
}
