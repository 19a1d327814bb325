package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"property-assistant/internal/config"
	"property-assistant/internal/model"
	"property-assistant/internal/repository"
	"property-assistant/internal/service"
)

var (
	rankCatalogPath string
	rankTopK        int
)

var rankCmd = &cobra.Command{
	Use:   "rank [query]",
	Short: "Rank the catalog for a query without calling the LLM",
	Long: `rank loads the JSON catalog, extracts preferences from the query and
prints the ranked properties and follow-up suggestions as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankCatalogPath, "catalog", "", "path to the apartments JSON file (default $APARTMENT_DATA)")
	rankCmd.Flags().IntVar(&rankTopK, "top", 0, "number of results (default $RANK_TOP_K)")
}

// rankOutput is the JSON document printed by the rank command
type rankOutput struct {
	Query       string                 `json:"query"`
	Preferences model.PreferenceSet    `json:"preferences"`
	Summary     string                 `json:"summary"`
	Stage       model.Stage            `json:"stage"`
	Properties  []model.RankedProperty `json:"properties"`
	Suggestions []string               `json:"suggestions"`
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, w := range cfg.Warnings {
		cmd.PrintErrln("Warning: " + w)
	}
	if rankCatalogPath != "" {
		cfg.Catalog.Path = rankCatalogPath
	}
	if rankTopK > 0 {
		cfg.Ranking.TopK = rankTopK
	}

	properties, err := repository.NewJSONPropertySource(cfg.Catalog.Path).LoadProperties(cmd.Context())
	if err != nil {
		return err
	}
	catalog := service.NewCatalog(properties)

	query := strings.Join(args, " ")
	var prefs model.PreferenceSet
	service.NewPreferenceExtractor().Extract(query, &prefs, catalog.Locations())
	ranked := newRanker(cfg).Rank(catalog, &prefs, query)
	stage := service.NextStage(model.StageDiscovery, strings.ToLower(query), 0)

	out := rankOutput{
		Query:       query,
		Preferences: prefs,
		Summary:     prefs.Summary(),
		Stage:       stage,
		Properties:  ranked,
		Suggestions: service.NewSuggestionGenerator(cfg.Ranking.SuggestionLimit).Suggest(service.SuggestionInput{
			Query:   query,
			Prefs:   &prefs,
			Stage:   stage,
			Catalog: catalog,
		}),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
