// Demo application for the conf registry: declares two groups, layers a
// config file, environment variables, and command-line flags on top of the
// defaults, and prints the result.
//
// Try:
//
//	go run . --server-port 9090
//	MYAPP__server__host=prod.internal go run .
//	go run . --help
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/confreg/conf"
)

const configFile = "demo.toml"

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	c := conf.NewWithOptions(conf.Options{Logger: &logger})

	if _, err := c.DeclareGroup("server", map[string]any{
		"host": conf.Prop{Default: "localhost", Description: "listen address"},
		"port": conf.Prop{Default: 8080, Description: "listen port"},
	}); err != nil {
		log.Fatal(err)
	}

	_, err := c.DeclareGroupFunc("cache", func(g *conf.GroupBuilder) {
		g.Set("backend", "memory")
		g.Set("expire_time", conf.Prop{Default: 60, Description: "TTL in seconds"})
		g.Set("hosts", []string{"127.0.0.1"})
	})
	if err != nil {
		log.Fatal(err)
	}

	writeDemoFile()
	defer os.Remove(configFile)

	if err := c.LoadFile(configFile); err != nil {
		log.Fatal(err)
	}
	if err := c.LoadEnv("MYAPP"); err != nil {
		log.Fatal(err)
	}

	root := &cobra.Command{
		Use:   "conf-demo",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(c.Describe())

			// Scoped override: visible inside, rolled back after.
			c.MutateLocally(func() {
				c.Set("cache", "backend", "redis")
				fmt.Println("inside MutateLocally:", c.MustGet("cache", "backend"))
			})
			fmt.Println("after MutateLocally: ", c.MustGet("cache", "backend"))
			return nil
		},
	}
	c.BindCommand(root)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func writeDemoFile() {
	data := []byte("[cache]\nexpire_time = 120\nbackend = \"disk\"\n")
	if err := os.WriteFile(configFile, data, 0644); err != nil {
		log.Fatal(err)
	}
}
