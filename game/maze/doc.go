// Package maze provides the maze generation and solving engine.
//
// The maze package implements:
//   - An n×n Grid whose cells record the ordered child edges of a spanning tree
//   - A randomized depth-first Generator that visits every cell exactly once
//   - An iterative depth-first Solver with explicit fork and path stacks
//   - Extraction of the minimal root→target move list from the solver's path stack
//   - Structural validation, ASCII rendering, and JSON presets
//
// Core Types:
//
// Direction is one of North, South, West, East. A Cell holds the directions the
// tree grows in from that cell, in discovery order, plus a Marker (Unvisited, Open,
// Exhausted). Exhausted marks visited leaves and is what triggers backtracking
// in the Solver.
//
// Usage:
//
//	grid, err := maze.GenerateSeeded(25, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	path, err := maze.Solve(grid)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(maze.Render(grid, path))
//
// Stepping:
//
// A Solver can be driven one Step at a time so a renderer can replay the search
// at its own pace. Each Step is either an advance along the first untried child
// or a backtrack that unwinds to the nearest fork and takes its next child.
//
// Guarantees:
//
// For a grid built by Generate, the root is (0,0), the target is (n-1,n-1), the
// edges form a tree with n²-1 edges, and Solve returns exactly the tree path
// between them. The engine keeps no global state and never logs; a Grid is safe
// to share for reading once built.
package maze
