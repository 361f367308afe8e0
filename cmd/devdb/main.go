package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/bluefin-crm/internal/testdb"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Start a development database (and Redis) in containers, print the environment
the server needs to reach them, and keep them running until interrupted.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file
  DB_TYPE      postgres (default) or mysql
  DB_IMAGE     image override
  WITH_REDIS   set to false to skip Redis

example
  devdb -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	containers, err := testdb.Start(nil, testdb.OptionsFromEnv())
	if err != nil {
		log.Fatalf("Failed to start containers: %v\n", err)
	}

	keys := make([]string, 0, len(containers.Env))
	for k := range containers.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("# server environment")
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, containers.Env[k])
	}

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating containers...\n", sig)
	containers.Terminate(nil)
}
