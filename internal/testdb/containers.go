// Package testdb starts throwaway database and Redis containers for
// integration tests and for cmd/devdb.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SessionLabel tags every container started by one Start call.
const SessionLabel = "bluefin.devdb.session"

// Options selects what to start. Empty fields fall back to the environment, then defaults.
type Options struct {
	DBType     string
	DBImage    string
	Database   string
	User       string
	Password   string
	WithRedis  bool
	RedisImage string
}

// Containers is a running set of containers.
type Containers struct {
	Network *testcontainers.DockerNetwork
	DB      testcontainers.Container
	Redis   testcontainers.Container
	// Env is what the server needs to reach the containers from the host.
	Env map[string]string
}

// OptionsFromEnv reads Options the way cmd/devdb and the integration tests expect.
func OptionsFromEnv() Options {
	return Options{
		DBType:     getEnv("DB_TYPE", "postgres"),
		DBImage:    os.Getenv("DB_IMAGE"),
		Database:   getEnv("DB_DATABASE", "bluefin"),
		User:       getEnv("DB_USER", "bluefin"),
		Password:   getEnv("DB_PASSWORD", "bluefin-secret"),
		WithRedis:  os.Getenv("WITH_REDIS") != "false",
		RedisImage: os.Getenv("REDIS_IMAGE"),
	}
}

func (tc *Containers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.Redis != nil {
		if err := tc.Redis.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Redis: %v", err)
		}
	}
	if tc.DB != nil {
		if err := tc.DB.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// Start launches the containers. On failure everything already started is terminated.
func Start(t *testing.T, opts Options) (*Containers, error) {
	ctx := context.Background()
	tc := &Containers{Env: map[string]string{}}
	session := uuid.New().String()
	debugContainer := os.Getenv("DEBUG_CONTAINER") == "true"

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	spec, err := dbSpec(opts)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	tcpDBPort, err := nat.NewPort("tcp", spec.port)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to create database port: %w", err)
	}

	if cached, err := imageExists(ctx, spec.image); err == nil {
		logMessage(t, "Database image %s cached: %v", spec.image, cached)
	}

	hostConfigModifier := func(hostConfig *container.HostConfig) {
		if debugContainer {
			// pin the database to its usual host port for external tools
			hostConfig.PortBindings = nat.PortMap{
				tcpDBPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: spec.port}},
			}
		}
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:              spec.image,
			ExposedPorts:       []string{string(tcpDBPort)},
			Env:                spec.env,
			Labels:             map[string]string{SessionLabel: session},
			WaitingFor:         spec.wait(tcpDBPort),
			HostConfigModifier: hostConfigModifier,
			Networks:           []string{nw.Name},
			NetworkAliases:     map[string][]string{nw.Name: {"db"}},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	tc.DB = dbContainer

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	dbPort, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	if spec.dbType == "mysql" {
		if err := waitForMySQL(opts, dbHost, dbPort); err != nil {
			tc.Terminate(t)
			return nil, err
		}
	}

	tc.Env["DB_TYPE"] = spec.dbType
	tc.Env["DB_HOST"] = dbHost
	tc.Env["DB_PORT"] = dbPort.Port()
	tc.Env["DB_DATABASE"] = opts.Database
	tc.Env["DB_USER"] = opts.User
	tc.Env["DB_PASSWORD"] = opts.Password

	if opts.WithRedis {
		redisImage := opts.RedisImage
		if redisImage == "" {
			redisImage = "redis:7-alpine"
		}
		tcpRedisPort, _ := nat.NewPort("tcp", "6379")
		redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        redisImage,
				ExposedPorts: []string{string(tcpRedisPort)},
				Labels:       map[string]string{SessionLabel: session},
				WaitingFor:   wait.ForListeningPort(tcpRedisPort).WithStartupTimeout(30 * time.Second),
				Networks:     []string{nw.Name},
			},
			Started: true,
		})
		if err != nil {
			tc.Terminate(t)
			return nil, fmt.Errorf("failed to start Redis: %w", err)
		}
		tc.Redis = redisContainer

		redisHost, _ := redisContainer.Host(ctx)
		redisPort, err := redisContainer.MappedPort(ctx, tcpRedisPort)
		if err != nil {
			tc.Terminate(t)
			return nil, err
		}
		tc.Env["REDIS_ADDR"] = fmt.Sprintf("%s:%s", redisHost, redisPort.Port())
	}

	logMessage(t, "Containers for session %s started", session)
	return tc, nil
}

type containerSpec struct {
	dbType string
	image  string
	port   string
	env    map[string]string
	wait   func(nat.Port) wait.Strategy
}

func dbSpec(opts Options) (containerSpec, error) {
	switch opts.DBType {
	case "postgres", "postgresql":
		return containerSpec{
			dbType: "postgres",
			image:  orDefault(opts.DBImage, "postgres:16-alpine"),
			port:   "5432",
			env: map[string]string{
				"POSTGRES_DB":       opts.Database,
				"POSTGRES_USER":     opts.User,
				"POSTGRES_PASSWORD": opts.Password,
			},
			wait: func(p nat.Port) wait.Strategy {
				// postgres restarts once after running its init scripts
				return wait.ForAll(
					wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
					wait.ForListeningPort(p),
				).WithDeadline(60 * time.Second)
			},
		}, nil
	case "mysql", "mariadb":
		return containerSpec{
			dbType: "mysql",
			image:  orDefault(opts.DBImage, "mariadb:11"),
			port:   "3306",
			env: map[string]string{
				"MARIADB_ROOT_PASSWORD": opts.Password,
				"MARIADB_DATABASE":      opts.Database,
				"MARIADB_USER":          opts.User,
				"MARIADB_PASSWORD":      opts.Password,
			},
			wait: func(p nat.Port) wait.Strategy {
				return wait.ForListeningPort(p).WithStartupTimeout(60 * time.Second)
			},
		}, nil
	}
	return containerSpec{}, fmt.Errorf("no container for DB_TYPE %q", opts.DBType)
}

// waitForMySQL pings until the server accepts the application user.
func waitForMySQL(opts Options, host string, port nat.Port) error {
	db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", opts.User, opts.Password, host, port.Port(), opts.Database))
	if err != nil {
		return fmt.Errorf("failed to open MariaDB: %w", err)
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	return orDefault(os.Getenv(key), fallback)
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
