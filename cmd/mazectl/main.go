// Command mazectl generates, solves and validates mazes offline, without a server.
//
//	mazectl generate -n 12 --seed 42
//	mazectl generate --preset tiny --json > maze.json
//	mazectl solve --file maze.json --trace
//	mazectl validate maze.json
//	mazectl presets
package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "mazectl",
		Usage:   "generate, solve and validate perfect mazes",
		Version: "1.0.0",
		Reader:  in,
		Writer:  out,
		Commands: []*cli.Command{
			generateCommand(out),
			solveCommand(in, out),
			validateCommand(in, out),
			presetsCommand(out),
		},
	}
}
