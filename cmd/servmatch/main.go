// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.yaml.in/yaml/v3"

	"github.com/poiesic/servmatch"
	"github.com/poiesic/servmatch/api"
	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/search"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "servmatch",
		Usage: "Content based recommendations for home service providers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
				EnvVars: []string{"SERVMATCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the provider catalog CSV",
				EnvVars: []string{"SERVMATCH_DATA"},
			},
			&cli.StringFlag{
				Name:    "artifacts",
				Aliases: []string{"a"},
				Usage:   "Directory holding the encoded catalog",
				EnvVars: []string{"SERVMATCH_ARTIFACTS"},
			},
			&cli.BoolFlag{
				Name:    "in-memory",
				Usage:   "Keep encoded artifacts in memory only",
				EnvVars: []string{"SERVMATCH_IN_MEMORY"},
			},
			&cli.BoolFlag{
				Name:    "rebuild-on-change",
				Usage:   "Re-encode when the catalog content changes",
				EnvVars: []string{"SERVMATCH_REBUILD_ON_CHANGE"},
			},
			&cli.IntFlag{
				Name:    "pool-size",
				Usage:   "Worker pool size for encoding and batch ranking (0 = auto)",
				EnvVars: []string{"SERVMATCH_POOL_SIZE"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Re-encode the catalog and save the artifacts",
				Action: buildCommand,
			},
			{
				Name:   "recommend",
				Usage:  "Recommend providers for a service request",
				Action: recommendCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "service-type",
						Aliases: []string{"s"},
						Usage:   "Requested service type, e.g. Plumber",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Requested location",
					},
					&cli.StringFlag{
						Name:  "skills",
						Usage: "Comma separated skills",
					},
					&cli.StringFlag{
						Name:  "days",
						Usage: "Preferred days, e.g. \"Mon-Fri\" or \"Sat, Sun\"",
					},
					&cli.StringFlag{
						Name:  "rating",
						Usage: "Minimum provider rating",
						Value: "1",
					},
					&cli.IntFlag{
						Name:    "top-n",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   core.DefaultTopN,
					},
					&cli.StringFlag{
						Name:  "sort-by",
						Usage: "Sort key (similarity, rating, name)",
						Value: "similarity",
					},
					&cli.StringFlag{
						Name:  "sort-order",
						Usage: "Sort order for rating and name (asc, desc)",
						Value: "desc",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (table, json, yaml)",
						Value:   formatTable,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Report each ranking stage on stderr",
					},
					&cli.StringFlag{
						Name:  "batch",
						Usage: "JSON lines file with one request per line",
					},
				},
			},
			{
				Name:   "providers",
				Usage:  "List every provider in the catalog",
				Action: providersCommand,
				Flags:  []cli.Flag{formatFlag()},
			},
			{
				Name:      "show",
				Usage:     "Show one provider",
				ArgsUsage: "<id>",
				Action:    showCommand,
				Flags:     []cli.Flag{formatFlag()},
			},
			{
				Name:   "facets",
				Usage:  "List the service types and locations in the catalog",
				Action: facetsCommand,
				Flags:  []cli.Flag{formatFlag()},
			},
			{
				Name:   "serve",
				Usage:  "Serve recommendations over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						EnvVars: []string{"SERVMATCH_ADDR"},
					},
				},
			},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (table, json, yaml)",
		Value:   formatTable,
	}
}

// loadConfig layers the config file, then global flags and env vars.
func loadConfig(c *cli.Context) (*servmatch.Config, error) {
	cfg := servmatch.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = servmatch.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
	}

	if c.IsSet("data") {
		cfg.DataPath = c.String("data")
	}
	if c.IsSet("artifacts") {
		cfg.ArtifactDir = c.String("artifacts")
	}
	if c.IsSet("in-memory") {
		cfg.InMemory = c.Bool("in-memory")
	}
	if c.IsSet("rebuild-on-change") {
		cfg.RebuildOnChange = c.Bool("rebuild-on-change")
	}
	if c.IsSet("pool-size") {
		cfg.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("top-n") {
		cfg.TopN = c.Int("top-n")
	}
	if c.IsSet("addr") {
		cfg.ListenAddr = c.String("addr")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openEngine(c *cli.Context, opts ...servmatch.Option) (*servmatch.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	engine, err := servmatch.Open(c.Context, cfg, append(opts, servmatch.WithLogger(slog.Default()))...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func buildCommand(c *cli.Context) error {
	engine, err := openEngine(c, servmatch.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer engine.Close()

	// Open already re-encoded when the artifacts were missing or stale.
	if !engine.Stats().Rebuilt {
		rebuilt, err := engine.Rebuild(c.Context)
		if err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		defer rebuilt.Close()
		engine = rebuilt
	}

	stats := engine.Stats()
	fmt.Fprintf(c.App.Writer, "Encoded %d providers into %d columns\n", stats.Providers, stats.Columns)
	fmt.Fprintf(c.App.Writer, "Service type terms: %d, skills: %d, days: %d, locations: %d\n",
		stats.ServiceTypeTerms, stats.Skills, stats.Days, stats.Locations)
	fmt.Fprintf(c.App.Writer, "Catalog fingerprint: %016x\n", uint64(stats.Fingerprint))
	return nil
}

func recommendCommand(c *cli.Context) error {
	format, err := checkFormat(c.String("format"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if path := c.String("batch"); path != "" {
		return runBatch(c, engine, path, format)
	}

	req := engine.NewRequest(core.Query{
		ServiceType: c.String("service-type"),
		Location:    c.String("location"),
		Skills:      c.String("skills"),
		Days:        c.String("days"),
		MinRating:   core.Floor(core.ParseMinRating(c.String("rating"))),
	})
	req.SortBy = core.ParseSortKey(c.String("sort-by"))
	req.SortOrder = core.ParseSortOrder(c.String("sort-order"))

	var recs []core.Recommendation
	if c.Bool("explain") {
		recs, err = engine.Explain(req, newExplainMonitor(c.App.ErrWriter))
	} else {
		recs, err = engine.Recommend(req)
	}
	if err != nil {
		return err
	}

	if len(recs) == 0 && format == formatTable {
		fmt.Fprintln(c.App.Writer, api.NoResultsMessage)
		return nil
	}
	return writeRecommendations(c.App.Writer, format, recs)
}

// batchLine is one request in a --batch file.
type batchLine struct {
	ID          string `json:"id"`
	ServiceType string `json:"service_type"`
	Location    string `json:"location"`
	Skills      string `json:"skills"`
	Days        string `json:"days_available"`
	Rating      string `json:"rating"`
	SortBy      string `json:"sort_by"`
	SortOrder   string `json:"sort_order"`
	TopN        int    `json:"top_n"`
}

type batchResult struct {
	ID              string                `json:"id" yaml:"id"`
	Recommendations []core.Recommendation `json:"recommendations" yaml:"recommendations"`
}

func readBatch(path string) ([]batchLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var lines []batchLine
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var line batchLine
		if err := json.Unmarshal([]byte(text), &line); err != nil {
			return nil, fmt.Errorf("batch line %d: %w", lineNo, err)
		}
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return lines, nil
}

func runBatch(c *cli.Context, engine *servmatch.Engine, path, format string) error {
	lines, err := readBatch(path)
	if err != nil {
		return err
	}

	reqs := make([]search.Request, len(lines))
	for i, line := range lines {
		reqs[i] = engine.NewRequest(core.Query{
			ServiceType: line.ServiceType,
			Location:    line.Location,
			Skills:      line.Skills,
			Days:        line.Days,
			MinRating:   core.Floor(core.ParseMinRating(line.Rating)),
		})
		if line.TopN != 0 {
			reqs[i].TopN = line.TopN
		}
		reqs[i].SortBy = core.ParseSortKey(line.SortBy)
		reqs[i].SortOrder = core.ParseSortOrder(line.SortOrder)
	}

	slog.Debug("ranking batch", "requests", len(reqs), "file", path)
	results, err := engine.RecommendBatch(c.Context, reqs)
	if err != nil {
		return err
	}

	out := make([]batchResult, len(lines))
	for i := range lines {
		out[i] = batchResult{ID: lines[i].ID, Recommendations: results[i]}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(c.App.Writer)
		for i := range out {
			if err := enc.Encode(out[i]); err != nil {
				return err
			}
		}
		return nil
	case formatYAML:
		return writeYAML(c.App.Writer, out)
	default:
		for i := range out {
			fmt.Fprintf(c.App.Writer, "== %s ==\n", out[i].ID)
			if len(out[i].Recommendations) == 0 {
				fmt.Fprintln(c.App.Writer, api.NoResultsMessage)
				continue
			}
			if err := writeTable(c.App.Writer, out[i].Recommendations); err != nil {
				return err
			}
		}
		return nil
	}
}

func providersCommand(c *cli.Context) error {
	format, err := checkFormat(c.String("format"))
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	providers := engine.Providers()
	recs := make([]core.Recommendation, len(providers))
	for i := range providers {
		recs[i] = providers[i].Recommendation()
	}
	return writeRecommendations(c.App.Writer, format, recs)
}

func showCommand(c *cli.Context) error {
	format, err := checkFormat(c.String("format"))
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return fmt.Errorf("show requires exactly one provider id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid provider id %q: %w", c.Args().First(), err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	p, err := engine.Provider(id)
	if err != nil {
		return err
	}

	rec := p.Recommendation()
	switch format {
	case formatJSON:
		return writeJSON(c.App.Writer, rec)
	case formatYAML:
		return writeYAML(c.App.Writer, rec)
	default:
		tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\t%d\n", rec.ID)
		fmt.Fprintf(tw, "Name\t%s\n", rec.Name)
		fmt.Fprintf(tw, "Service Type\t%s\n", rec.ServiceType)
		fmt.Fprintf(tw, "Location\t%s\n", rec.Location)
		fmt.Fprintf(tw, "Rating\t%.1f\n", rec.Rating)
		fmt.Fprintf(tw, "Skills\t%s\n", rec.Skills)
		fmt.Fprintf(tw, "Days Available\t%s\n", rec.Days)
		fmt.Fprintf(tw, "Contact\t%s\n", rec.Contact)
		return tw.Flush()
	}
}

func facetsCommand(c *cli.Context) error {
	format, err := checkFormat(c.String("format"))
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	facets := engine.Facets()
	switch format {
	case formatJSON:
		return writeJSON(c.App.Writer, facets)
	case formatYAML:
		return writeYAML(c.App.Writer, facets)
	default:
		fmt.Fprintf(c.App.Writer, "Service types: %s\n", strings.Join(facets.ServiceTypes, ", "))
		fmt.Fprintf(c.App.Writer, "Locations: %s\n", strings.Join(facets.Locations, ", "))
		return nil
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	loader := servmatch.NewLoader(cfg, servmatch.WithLogger(slog.Default()))
	defer loader.Close()

	engine, err := loader.Engine(ctx)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}

	if !strings.EqualFold(c.String("log-level"), "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(engine, slog.Default())
	return api.Serve(ctx, cfg.ListenAddr, router, slog.Default())
}

func checkFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case formatTable, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of table, json, yaml", format)
	}
}

func writeRecommendations(w io.Writer, format string, recs []core.Recommendation) error {
	switch format {
	case formatJSON:
		return writeJSON(w, recs)
	case formatYAML:
		return writeYAML(w, recs)
	default:
		return writeTable(w, recs)
	}
}

func writeTable(w io.Writer, recs []core.Recommendation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSERVICE TYPE\tLOCATION\tRATING\tSKILLS\tDAYS\tCONTACT")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			r.ID, r.Name, r.ServiceType, r.Location, r.Rating, r.Skills, r.Days, r.Contact)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
