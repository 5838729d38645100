package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LetsJonnTV/CodeAnalytics/internal/config"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules"
)

var flagCategory string

var listRulesCmd = &cobra.Command{
	Use:   "list-rules",
	Short: "List all available detection rules",
	RunE:  runListRules,
}

func init() {
	listRulesCmd.Flags().StringVar(&flagCategory, "category", "", "Filter by category (security, performance, quality)")
	rootCmd.AddCommand(listRulesCmd)
}

type ruleInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Severity  string   `json:"severity"`
	Category  string   `json:"category"`
	Languages []string `json:"languages,omitempty"`
}

func runListRules(cmd *cobra.Command, args []string) error {
	compiled, err := loadAndCompileRules(config.Config{})
	if err != nil {
		return err
	}

	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].ID < compiled[j].ID
	})

	if flagCategory != "" {
		var filtered []*rules.CompiledRule
		for _, r := range compiled {
			if strings.EqualFold(string(r.Category), flagCategory) {
				filtered = append(filtered, r)
			}
		}
		compiled = filtered
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		infos := make([]ruleInfo, len(compiled))
		for i, r := range compiled {
			langs := make([]string, len(r.Languages))
			for j, l := range r.Languages {
				langs[j] = l.String()
			}
			infos[i] = ruleInfo{
				ID:        r.ID,
				Name:      r.Name,
				Severity:  r.Severity.String(),
				Category:  string(r.Category),
				Languages: langs,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tSEVERITY\tCATEGORY\tLANGUAGES\n")
	fmt.Fprintf(tw, "--\t----\t--------\t--------\t---------\n")
	for _, r := range compiled {
		langs := "all"
		if len(r.Languages) > 0 {
			names := make([]string, len(r.Languages))
			for i, l := range r.Languages {
				names[i] = l.String()
			}
			langs = strings.Join(names, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Severity.String(), r.Category, langs)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d rules loaded\n", len(compiled))

	return nil
}
