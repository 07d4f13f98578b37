package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hyperengineering/attire/internal/api"
	"github.com/hyperengineering/attire/internal/catalog"
	"github.com/hyperengineering/attire/internal/config"
	"github.com/hyperengineering/attire/internal/engine"
	"github.com/hyperengineering/attire/internal/profile"
	"github.com/hyperengineering/attire/internal/types"
)

var (
	recommendRequestPath string
	recommendSeed        uint64
	recommendLocation    string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run one recommendation locally and print the response",
	Long: `Run the recommendation engine against the configured catalog and profiles
without starting the server. The request is the same JSON body POST /api/v1/recommend
accepts. --seed makes the output reproducible.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendRequestPath, "request", "-",
		"Path to a JSON request body, or - for stdin")
	recommendCmd.Flags().Uint64Var(&recommendSeed, "seed", 0,
		"Random seed for reproducible output")
	recommendCmd.Flags().StringVar(&recommendLocation, "location", "",
		"Location to resolve weather for (overrides the request body)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadLocal()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := readInput(cmd.InOrStdin(), recommendRequestPath)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var body types.RecommendRequest
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	if recommendLocation != "" {
		body.Location = recommendLocation
	}

	profiles, err := profile.LoadFile(cfg.Profiles.Path)
	if err != nil {
		return err
	}

	loader, closeSource, err := catalogSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	cat, err := catalog.Load(ctx, loader)
	if err != nil {
		return fmt.Errorf("load catalog from %s: %w", loader.Describe(), err)
	}

	snap, source := api.ResolveWeather(ctx, weatherProvider(cfg.Weather), body.Location)
	req := body.Context(snap, types.Mode(cfg.Engine.DefaultMode), cfg.Engine.DefaultMaxResults)

	eng := engine.New(cat, profiles)
	var result *types.RecommendationResult
	if cmd.Flags().Changed("seed") {
		result, err = eng.RecommendWithRand(req, engine.NewSeededRand(recommendSeed))
	} else {
		result, err = eng.Recommend(req)
	}
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), types.RecommendResponse{
		Weather:         snap,
		Recommendations: result.Recommendations,
		Analytics:       result.Analytics,
		Debug: types.RecommendDebug{
			Mode:          req.Mode,
			WeatherSource: source,
		},
	})
}
