package triago

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/config"
	triagoLogger "github.com/soundprediction/triago/pkg/logger"
	"github.com/soundprediction/triago/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a one-shot search against the knowledge graph",
	Long: `Run a single query against the hospital emergency knowledge graph and
print the ranked results.

The mode flag selects the entry point: hybrid (default), exact, emergency,
rag, or stats.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("mode", "hybrid", "Search mode (hybrid, exact, emergency, rag, stats)")
	searchCmd.Flags().Int("limit", 0, "Maximum number of results (0 uses the engine default)")
	searchCmd.Flags().Int("max-hops", -1, "Graph traversal depth (-1 uses the engine default, 0 disables traversal)")
	searchCmd.Flags().Float64("min-relevance", 0, "Relevance floor for fuzzy matches (0 uses the engine default)")
	searchCmd.Flags().StringSlice("node-type", nil, "Restrict fuzzy matches to these node types")
	searchCmd.Flags().Bool("json", false, "Print the raw JSON response")
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := newQueryClient()
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := types.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	query := &types.HybridSearchQuery{Text: strings.Join(args, " ")}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		query.Limit = limit
	}
	if maxHops, _ := cmd.Flags().GetInt("max-hops"); maxHops >= 0 {
		query.MaxHops = &maxHops
	}
	if minRelevance, _ := cmd.Flags().GetFloat64("min-relevance"); minRelevance > 0 {
		query.MinRelevance = minRelevance
	}
	if nodeTypes, _ := cmd.Flags().GetStringSlice("node-type"); len(nodeTypes) > 0 {
		for _, t := range nodeTypes {
			query.NodeTypes = append(query.NodeTypes, types.NodeType(t))
		}
	}

	result, err := client.Query(ctx, mode, query)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(result)
	}

	switch {
	case result.Search != nil:
		printSearchResults(result.Search)
	case result.Emergency != nil:
		printEmergencyResults(result.Emergency)
	case result.Context != nil:
		printRAGContext(result.Context)
	case result.Stats != nil:
		printStoreStats(result.Stats)
	}
	return nil
}

// newQueryClient builds a client for one-shot commands. The alert store is
// forced to memory so a one-shot never takes the server's badger lock.
func newQueryClient() (*triago.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.AlertStore.Type = "memory"

	log := triagoLogger.NewLogger(os.Stderr, parseLogLevel(cfg.Log.Level))
	return triago.New(cfg, log)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printSearchResults(res *types.SearchResults) {
	fmt.Printf("Query: %s\n", res.Query)
	fmt.Printf("%d results (exact %d, semantic %d, graph %d; %d seeds, %d nodes scanned)\n\n",
		len(res.Results),
		res.Stats.ExactMatches, res.Stats.SemanticMatches, res.Stats.GraphMatches,
		res.Stats.SeedCount, res.Stats.NodesScanned)

	for i, r := range res.Results {
		fmt.Printf("%2d. %.4f  %-8s  %s (%s, %s)\n",
			i+1, r.Score, r.MatchType, r.Node.Name, r.Node.Type, r.Node.ID)
		if len(r.GraphPath) > 1 {
			fmt.Printf("    path: %s\n", strings.Join(r.GraphPath, " -> "))
		}
	}
}

func printEmergencyResults(res *types.EmergencyResults) {
	fmt.Printf("Emergency view for: %s\n", res.Query)
	for _, bucket := range res.Buckets {
		fmt.Printf("\n[%s]\n", bucket.Type)
		if len(bucket.Results) == 0 {
			fmt.Println("  (none)")
			continue
		}
		for _, r := range bucket.Results {
			fmt.Printf("  %.4f  %s (%s)\n", r.Score, r.Node.Name, r.Node.ID)
		}
	}
}

func printRAGContext(ragCtx *types.RAGContext) {
	fmt.Printf("Query: %s\n", ragCtx.Query)
	fmt.Printf("Confidence: %.2f\n\n", ragCtx.Confidence)
	fmt.Println(ragCtx.ContextString)
	if len(ragCtx.Relationships) > 0 {
		fmt.Printf("\nRelationships:\n")
		for _, rel := range ragCtx.Relationships {
			fmt.Printf("  %s -[%s %.2f]-> %s\n", rel.SourceName, rel.Type, rel.Weight, rel.TargetName)
		}
	}
}

func printStoreStats(stats *types.StoreStats) {
	fmt.Printf("Nodes: %d\n", stats.NodeCount)
	fmt.Printf("Edges: %d\n", stats.EdgeCount)
	fmt.Println("\nNodes by type:")
	for _, tc := range stats.NodesByType {
		fmt.Printf("  %-12s %d\n", tc.Type, tc.Count)
	}
}
