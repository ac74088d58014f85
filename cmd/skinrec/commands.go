package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/skinrec/internal/api"
	"github.com/kalambet/skinrec/internal/catalog"
	"github.com/kalambet/skinrec/internal/config"
	"github.com/kalambet/skinrec/internal/recommend"
	"github.com/kalambet/skinrec/internal/storage"
)

// --- recommend ---

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend treatments for a skin profile",
	Long: `Recommend treatments for each problem of a skin profile.

Problems are derived from --symptom when no --problem is given. By default the
request goes to the running server; --local evaluates it in-process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := recommendRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		local, _ := cmd.Flags().GetBool("local")
		asJSON, _ := cmd.Flags().GetBool("json")

		var results []recommend.ProblemResult
		if local {
			results, err = recommendLocal(cmd.Context(), req)
		} else {
			results, err = recommendRemote(cmd.Context(), req)
		}
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		printResults(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	f := recommendCmd.Flags()
	f.String("skin-type", "", "skin type: Normal, Dry, Oily or Unsure (required)")
	f.String("age-range", "", "age range: 18-25, 25-35, 35-45 or 45+ (required)")
	f.StringArray("problem", nil, "skin problem to solve (repeatable)")
	f.StringArray("symptom", nil, "observed symptom (repeatable)")
	f.StringArray("allergy", nil, `allergy answer, e.g. "Allergy to retinol" (repeatable)`)
	f.StringArray("contraindication", nil, "declared contraindication (repeatable)")
	f.Bool("pregnant", false, "user is pregnant")
	f.Int("top", 0, "recommendations per problem (default from config)")
	f.String("session", "", "session id for snapshots")
	f.Bool("local", false, "evaluate in-process instead of calling the server")
	f.Bool("json", false, "print the raw JSON response")
	recommendCmd.MarkFlagRequired("skin-type")
	recommendCmd.MarkFlagRequired("age-range")
}

func recommendRequestFromFlags(cmd *cobra.Command) (api.RecommendRequest, error) {
	f := cmd.Flags()
	var req api.RecommendRequest
	var err error
	if req.SkinType, err = f.GetString("skin-type"); err != nil {
		return req, err
	}
	if req.AgeRange, err = f.GetString("age-range"); err != nil {
		return req, err
	}
	req.Problems, _ = f.GetStringArray("problem")
	req.Symptoms, _ = f.GetStringArray("symptom")
	req.Allergies, _ = f.GetStringArray("allergy")
	req.Contraindications, _ = f.GetStringArray("contraindication")
	req.IsPregnant, _ = f.GetBool("pregnant")
	req.TopPerProblem, _ = f.GetInt("top")
	req.SessionID, _ = f.GetString("session")
	return req, nil
}

func recommendLocal(ctx context.Context, req api.RecommendRequest) ([]recommend.ProblemResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)
	engine, symptoms, err := buildEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return api.Recommend(ctx, engine, symptoms, req)
}

func recommendRemote(ctx context.Context, req api.RecommendRequest) ([]recommend.ProblemResult, error) {
	client, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	resp, err := client.post(ctx, "/recommend", req)
	if err != nil {
		return nil, err
	}
	if id := resp.Header.Get("X-Snapshot-ID"); id != "" {
		printStatus("Snapshot", "%s", id)
	}
	var results []recommend.ProblemResult
	if err := decodeJSON(resp, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// --- symptoms ---

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List known symptoms grouped by problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}
		symptoms, err := loadSymptoms(cfg)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, g := range symptoms.Groups() {
			fmt.Fprintln(w, colorize(colorBold, g.Problem))
			for _, s := range g.Symptoms {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		return nil
	},
}

// --- catalog ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect treatment catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a catalog file for unknown methods, types and missing fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(args[0])
		if err != nil {
			var joined interface{ Unwrap() []error }
			if errors.As(err, &joined) {
				for _, e := range joined.Unwrap() {
					printError("%v", e)
				}
				return fmt.Errorf("%d invalid templates in %s", len(joined.Unwrap()), args[0])
			}
			return err
		}

		stats := c.Stats()
		if stats.Malformed > 0 {
			for i, t := range c.Templates() {
				if err := t.Validate(); err != nil {
					printWarning("template #%d (%s): %v", i, t.Problem, err)
				}
			}
		}
		printSuccess("%s: %d templates, %d malformed", args[0], stats.Templates, stats.Malformed)
		return nil
	},
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats [path]",
	Short: "Count templates per problem and method",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			path = cfg.Catalog.Path
		}
		if path == "" {
			return fmt.Errorf("%w: catalog.path", config.ErrMissingRequired)
		}
		c, err := catalog.Load(path)
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), c.Stats(), c.Problems())
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
}

// --- choose / feedback ---

var chooseCmd = &cobra.Command{
	Use:   "choose",
	Short: "Record the treatment picked from a recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var req api.ChoiceRequest
		req.SessionID, _ = f.GetString("session")
		req.SnapshotID, _ = f.GetString("snapshot")
		req.Problem, _ = f.GetString("problem")
		req.Method, _ = f.GetString("method")
		req.Type, _ = f.GetString("type")
		req.SuccessProb, _ = f.GetInt("prob")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/choices", req)
		if err != nil {
			return err
		}
		var choice storage.Choice
		if err := decodeJSON(resp, &choice); err != nil {
			return err
		}
		printSuccess("Recorded choice %s", choice.ID)
		return nil
	},
}

func init() {
	f := chooseCmd.Flags()
	f.String("session", "", "session id (required)")
	f.String("snapshot", "", "snapshot the choice was made from")
	f.String("problem", "", "problem the treatment addresses (required)")
	f.String("method", "", "treatment method (required)")
	f.String("type", "", "treatment type (required)")
	f.Int("prob", 0, "success probability shown to the user")
	for _, name := range []string{"session", "problem", "method", "type"} {
		chooseCmd.MarkFlagRequired(name)
	}
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <choice-id> <rating>",
	Short: "Rate a chosen treatment from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[1])
		if err != nil || rating < 1 || rating > 5 {
			return fmt.Errorf("rating must be an integer from 1 to 5, got %q", args[1])
		}
		notes, _ := cmd.Flags().GetString("notes")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/feedback", api.FeedbackRequest{
			ChoiceID: args[0],
			Rating:   rating,
			Notes:    notes,
		})
		if err != nil {
			return err
		}
		var fb storage.Feedback
		if err := decodeJSON(resp, &fb); err != nil {
			return err
		}
		printSuccess("Recorded feedback %s", fb.ID)
		return nil
	},
}

func init() {
	feedbackCmd.Flags().String("notes", "", "free-text notes")
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// stdout carries the protocol; logs go to stderr.
		logger := newLogger(os.Stderr, cfg.Log.Level)
		engine, symptoms, err := buildEngine(cfg, logger)
		if err != nil {
			return err
		}

		deps := api.Deps{Engine: engine, Symptoms: symptoms, Logger: logger}
		if cfg.Storage.SnapshotsEnabled {
			store, err := storage.Open(cfg.Storage.DataDir)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer store.Close()
			deps.Store = store
			deps.SnapshotsEnabled = true
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		stdioSrv := server.NewStdioServer(api.NewMCPServer(deps))
		logger.Info("MCP server started (stdio transport)")
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP stdio server: %w", err)
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}

		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
