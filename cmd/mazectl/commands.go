package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/maze-engine/game/config"
	"github.com/wricardo/maze-engine/game/maze"
)

func presetDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "preset-dir",
		Value:   "configs",
		Usage:   "directory containing preset JSON files",
		Sources: cli.EnvVars("PRESET_DIR"),
	}
}

func generationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"n"},
			Usage:   "side length of the n x n grid",
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "random seed (default: time-derived)",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "generation strategy: stack or scan",
		},
		&cli.StringFlag{
			Name:  "preset",
			Usage: "start from a named preset; explicit flags override it",
		},
		presetDirFlag(),
	}
}

// genParams are the resolved inputs that reproduce a generated grid
type genParams struct {
	Size     int
	Seed     int64
	Strategy maze.Strategy
}

// resolveGenParams merges the optional preset with explicit flags, mirroring the service's rules
func resolveGenParams(cmd *cli.Command) (genParams, error) {
	params := genParams{Size: 10, Strategy: maze.StackBacktrack}
	seedSet := false

	if name := cmd.String("preset"); name != "" {
		presets, err := config.NewManager(cmd.String("preset-dir"))
		if err != nil {
			return params, err
		}
		preset, err := presets.LoadPreset(name)
		if err != nil {
			return params, err
		}
		params.Size = preset.Size
		if preset.Strategy != "" {
			params.Strategy = preset.Strategy
		}
		if preset.Seed != nil {
			params.Seed = *preset.Seed
			seedSet = true
		}
	}

	if cmd.IsSet("size") {
		params.Size = int(cmd.Int("size"))
	}
	if cmd.IsSet("seed") {
		params.Seed = int64(cmd.Int("seed"))
		seedSet = true
	}
	if s := cmd.String("strategy"); s != "" {
		strategy, err := maze.ParseStrategy(s)
		if err != nil {
			return params, err
		}
		params.Strategy = strategy
	}
	if !seedSet {
		params.Seed = time.Now().UnixNano()
	}

	return params, nil
}

func (p genParams) generate() (*maze.Grid, error) {
	return maze.GenerateSeeded(p.Size, p.Seed, maze.WithStrategy(p.Strategy))
}

func generateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate a maze and print it",
		Flags: append(generationFlags(),
			&cli.BoolFlag{Name: "json", Usage: "print the grid as JSON"},
			&cli.BoolFlag{Name: "path", Usage: "mark the solution on the drawing"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			params, err := resolveGenParams(cmd)
			if err != nil {
				return err
			}
			grid, err := params.generate()
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				return writeJSON(out, grid)
			}

			var path []maze.Direction
			if cmd.Bool("path") {
				if path, err = maze.Solve(grid); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "size=%d seed=%d strategy=%s\n", params.Size, params.Seed, params.Strategy)
			fmt.Fprint(out, maze.Render(grid, path))
			return nil
		},
	}
}

func solveCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "solve",
		Usage: "solve a generated maze or a grid read from JSON",
		Flags: append(generationFlags(),
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read the grid from a JSON file (- for stdin)"},
			&cli.BoolFlag{Name: "trace", Usage: "print every solver step"},
			&cli.BoolFlag{Name: "draw", Usage: "draw the maze with the solution marked"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var grid *maze.Grid
			var err error
			if file := cmd.String("file"); file != "" {
				grid, err = readGrid(in, file)
			} else {
				var params genParams
				if params, err = resolveGenParams(cmd); err == nil {
					fmt.Fprintf(out, "size=%d seed=%d strategy=%s\n", params.Size, params.Seed, params.Strategy)
					grid, err = params.generate()
				}
			}
			if err != nil {
				return err
			}

			if cmd.Bool("trace") {
				steps, err := maze.Trace(grid)
				if err != nil {
					return err
				}
				for _, step := range steps {
					fmt.Fprintln(out, describeStep(step))
				}
			}

			path, err := maze.Solve(grid)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "length=%d\n%s\n", len(path), joinDirections(path))
			if cmd.Bool("draw") {
				fmt.Fprint(out, maze.Render(grid, path))
			}
			return nil
		},
	}
}

func validateCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check that a JSON grid is a spanning tree with consistent markers",
		ArgsUsage: "FILE (- for stdin)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("validate expects exactly one FILE argument")
			}
			grid, err := readGrid(in, cmd.Args().First())
			if err != nil {
				return err
			}
			if err := maze.Validate(grid); err != nil {
				return err
			}
			fmt.Fprintf(out, "ok: %dx%d, %d edges\n", grid.Size, grid.Size, grid.EdgeCount())
			return nil
		},
	}
}

func presetsCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "presets",
		Usage:     "list presets, or show one by name",
		ArgsUsage: "[NAME]",
		Flags:     []cli.Flag{presetDirFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			presets, err := config.NewManager(cmd.String("preset-dir"))
			if err != nil {
				return err
			}

			if name := cmd.Args().First(); name != "" {
				preset, err := presets.LoadPreset(name)
				if err != nil {
					return err
				}
				return writeJSON(out, preset)
			}

			infos, err := presets.ListPresets()
			if err != nil {
				return err
			}
			for _, p := range infos {
				seed := "random"
				if p.Seed != nil {
					seed = fmt.Sprintf("%d", *p.Seed)
				}
				fmt.Fprintf(out, "%-12s %3dx%-3d seed=%-8s strategy=%-5s %s\n",
					p.PresetID, p.Size, p.Size, seed, p.Strategy, p.Description)
			}
			return nil
		},
	}
}

func readGrid(in io.Reader, file string) (*maze.Grid, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}

	var grid maze.Grid
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("failed to parse grid %s: %w", file, err)
	}
	return &grid, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinDirections(path []maze.Direction) string {
	names := make([]string, len(path))
	for i, d := range path {
		names[i] = d.String()
	}
	return strings.Join(names, " ")
}

func describeStep(step maze.Step) string {
	if step.Kind == maze.StepBacktrack && step.Fork != nil {
		return fmt.Sprintf("%4d backtrack %s -> fork %s (unwound %d) -> %s %s",
			step.Index, step.From, *step.Fork, step.Unwound, step.Direction, step.To)
	}
	return fmt.Sprintf("%4d advance   %s -> %s %s", step.Index, step.From, step.Direction, step.To)
}
