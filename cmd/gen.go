package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnabc13/new-kolam/internal/boundary"
	"github.com/arnabc13/new-kolam/internal/generator"
	"github.com/arnabc13/new-kolam/internal/search"
)

var (
	numPatterns  int
	dots         string
	sigma        float64
	profileName  string
	oneStroke    bool
	seed         int64
	trials       int
	iterations   int
	strictBudget bool
	outputFile   string
	timeout      time.Duration
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate kolam patterns",
		Long: `Generate one or more kolam patterns on a lattice of odd dimension.

Examples:
  kolam gen --dots 19
  kolam gen -n 3 --dots 7:11 --boundary fish
  kolam gen --dots 9 --one-stroke --seed 42 -o kolam.json`,
		RunE: runGen,
	}

	genCmd.Flags().IntVarP(&numPatterns, "number", "n", 1, "Number of patterns to generate")
	genCmd.Flags().StringVarP(&dots, "dots", "d", strconv.Itoa(generator.DefaultDots), "Odd lattice dimension >= 5 or range like 7:11")
	genCmd.Flags().Float64VarP(&sigma, "sigma", "s", generator.DefaultSigma, "Fraction of open gates, 0-1")
	genCmd.Flags().StringVarP(&profileName, "boundary", "b", string(boundary.Full), "Boundary shape: diamond, corners, fish, waves, fractal or organic")
	genCmd.Flags().BoolVar(&oneStroke, "one-stroke", false, "Spend a larger budget hunting for a single stroke")
	genCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	genCmd.Flags().IntVar(&trials, "trials", search.DefaultTrials, "Random assignments tried before refinement")
	genCmd.Flags().IntVar(&iterations, "iterations", 0, "Refinement sweeps (0 = mode default)")
	genCmd.Flags().BoolVar(&strictBudget, "strict", false, "Score strokes against the step budget instead of full coverage")
	genCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (e.g., kolam.json)")
	genCmd.Flags().DurationVar(&timeout, "timeout", 0, "Refinement time limit per pattern (0 = none)")

	rootCmd.AddCommand(genCmd)
}

// parseDotsRange parses a dimension string which can be:
// - A single number: "19"
// - A range: "7:11"
// Returns min, max, and an error
func parseDotsRange(s string) (min, max int, err error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		val, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid dots: %w", err)
		}
		return val, val, nil
	case 2:
		minVal, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid dots min: %w", err)
		}
		maxVal, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid dots max: %w", err)
		}
		if minVal > maxVal {
			return 0, 0, fmt.Errorf("dots min (%d) cannot be greater than max (%d)", minVal, maxVal)
		}
		return minVal, maxVal, nil
	}
	return 0, 0, fmt.Errorf("invalid dots format: %s (use format like '19' or '7:11')", s)
}

// oddChoices lists the odd dimensions in [min, max].
func oddChoices(min, max int) []int {
	var out []int
	for nd := min; nd <= max; nd++ {
		if nd%2 != 0 {
			out = append(out, nd)
		}
	}
	return out
}

type parameters struct {
	ND        int     `json:"ND"`
	Sigma     float64 `json:"sigmaref"`
	Boundary  string  `json:"boundary_type"`
	OneStroke bool    `json:"one_stroke"`
	Seed      int64   `json:"seed,omitempty"`
}

// kolamDocument is the JSON form of one pattern handed to a renderer.
type kolamDocument struct {
	ID          string       `json:"id"`
	PathCount   int          `json:"path_count"`
	IsOneStroke bool         `json:"is_one_stroke"`
	Target      int          `json:"target"`
	Parameters  parameters   `json:"parameters"`
	Gates       [][]int      `json:"gates"`
	Points      [][2]float64 `json:"points"`
}

func newDocument(res *generator.Result, params parameters) kolamDocument {
	points := res.Points()
	doc := kolamDocument{
		ID:          res.ID,
		PathCount:   res.CycleLength,
		IsOneStroke: res.OneStroke,
		Target:      res.Target,
		Parameters:  params,
		Gates:       res.Grid.Bits(),
		Points:      make([][2]float64, len(points)),
	}
	for k, p := range points {
		doc.Points[k] = [2]float64{p.X, p.Y}
	}
	return doc
}

// writeJSON writes the generated patterns as an indented JSON array.
func writeJSON(filename string, docs []kolamDocument) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

func printResult(w io.Writer, idx int, res *generator.Result, params parameters) {
	fmt.Fprintf(w, "Kolam #%d (dots: %d, boundary: %s):\n", idx, params.ND, params.Boundary)
	fmt.Fprint(w, res.Grid.Format())
	fmt.Fprintf(w, "Cycle length: %d / %d (one stroke: %t)\n\n", res.CycleLength, res.Target, res.OneStroke)
}

func runGen(cmd *cobra.Command, args []string) error {
	minDots, maxDots, err := parseDotsRange(dots)
	if err != nil {
		return err
	}
	choices := oddChoices(minDots, maxDots)
	if len(choices) == 0 {
		return fmt.Errorf("dots range %d:%d contains no odd dimension", minDots, maxDots)
	}

	profile, err := boundary.Parse(profileName)
	if err != nil {
		return err
	}

	var docs []kolamDocument
	outputJSON := outputFile != ""

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	for i := 0; i < numPatterns; i++ {
		nd := choices[rng.Intn(len(choices))]

		opts := generator.DefaultOptions(nd)
		opts.Sigma = sigma
		opts.Profile = profile
		opts.OneStroke = oneStroke
		opts.Trials = trials
		opts.Iterations = iterations
		opts.StrictBudget = strictBudget
		opts.Timeout = timeout
		if seed != 0 {
			opts.Seed = seed + int64(i)
		}

		res, err := generator.New(opts).Generate(contextOrBackground(cmd))
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		params := parameters{
			ND:        nd,
			Sigma:     sigma,
			Boundary:  string(profile),
			OneStroke: oneStroke,
			Seed:      opts.Seed,
		}
		if outputJSON {
			docs = append(docs, newDocument(res, params))
		} else {
			printResult(cmd.OutOrStdout(), i+1, res, params)
		}
	}

	if outputJSON {
		filename := outputFile
		if filepath.Ext(filename) != ".json" {
			filename = filename + ".json"
		}

		if err := writeJSON(filename, docs); err != nil {
			return fmt.Errorf("failed to write JSON file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d pattern(s) in %s\n", numPatterns, filename)
	}

	return nil
}

// contextOrBackground guards commands run without ExecuteContext.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
