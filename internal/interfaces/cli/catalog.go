package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
)

// ─────────────────────────────────────────────────────────────────────────────
// equipment
// ─────────────────────────────────────────────────────────────────────────────

// NewEquipmentCmd creates the equipment command group.
func NewEquipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Aliases: []string{"eq"},
		Short:   "Browse agricultural machinery models",
	}

	var major, sub, query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List equipment models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
				items := p.Catalog.ListEquipment(ctx, major, sub, query)
				return emit(cmd, cliCtx, items, func(w io.Writer) error {
					rows := make([][]string, 0, len(items))
					for _, e := range items {
						rows = append(rows, []string{e.ID, truncate(e.Name, 24), e.Category, e.Type, orDash(e.Model), fmt.Sprintf("%d", len(e.Parts))})
					}
					return renderTable(w, []string{"ID", "Name", "Category", "Type", "Model", "Parts"}, rows)
				})
			})
		},
	}
	listCmd.Flags().StringVar(&major, "major", "", "major category")
	listCmd.Flags().StringVar(&sub, "sub", "", "sub category")
	listCmd.Flags().StringVarP(&query, "query", "q", "", "search text")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an equipment model and the materials of its parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
				detail, err := p.Catalog.Equipment(ctx, args[0])
				if err != nil {
					return err
				}
				return emit(cmd, cliCtx, detail, func(w io.Writer) error {
					e := detail.Equipment
					printKeyValues(w, [][2]string{
						{"ID", e.ID},
						{"名称", e.Name},
						{"类别", e.Category + " / " + e.Type},
						{"型号", orDash(e.Model)},
						{"描述", orDash(e.Description)},
					})
					sectionHeading(w, "部件")
					rows := make([][]string, 0, len(detail.Parts))
					for _, pr := range detail.Parts {
						rows = append(rows, []string{pr.ID, pr.Name, pr.Category, pr.MaterialID, pr.MaterialName})
					}
					return renderTable(w, []string{"Part", "Name", "Category", "Material", "Material Name"}, rows)
				})
			})
		},
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List the equipment category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
				classes := p.Catalog.EquipmentCategories()
				return emit(cmd, cliCtx, classes, func(w io.Writer) error {
					for _, c := range classes {
						fmt.Fprintf(w, "%s\n", c.Major)
						for _, s := range c.Subs {
							fmt.Fprintf(w, "  - %s\n", s)
						}
					}
					return nil
				})
			})
		},
	}

	cmd.AddCommand(listCmd, showCmd, categoriesCmd)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// parts
// ─────────────────────────────────────────────────────────────────────────────

// NewPartsCmd creates the parts command group.
func NewPartsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parts",
		Short: "Browse machine parts and their materials",
	}

	var category, query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List parts across all equipment models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
				rows := p.Catalog.ListParts(ctx, category, query)
				return emit(cmd, cliCtx, rows, func(w io.Writer) error {
					out := make([][]string, 0, len(rows))
					for _, r := range rows {
						out = append(out, []string{r.ID, truncate(r.Name, 20), r.Category, r.MaterialID, truncate(r.MaterialName, 20), r.EquipmentID})
					}
					if err := renderTable(w, []string{"Part", "Name", "Category", "Material", "Material Name", "Equipment"}, out); err != nil {
						return err
					}
					fmt.Fprintf(w, "\n%d parts; categories: %s\n", len(rows), strings.Join(p.Catalog.PartCategories(), ", "))
					return nil
				})
			})
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "part category")
	listCmd.Flags().StringVarP(&query, "query", "q", "", "search text")

	cmd.AddCommand(listCmd)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// experiments
// ─────────────────────────────────────────────────────────────────────────────

// NewExperimentsCmd creates the experiments command group.
func NewExperimentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiments",
		Aliases: []string{"exp"},
		Short:   "Browse lab experiment records",
	}

	var typ, query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List experiments with catalog-wide status counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
				list := p.Catalog.ListExperiments(ctx, domain.ExperimentType(typ), query)
				return emit(cmd, cliCtx, list, func(w io.Writer) error {
					rows := make([][]string, 0, len(list.Items))
					for _, x := range list.Items {
						rows = append(rows, []string{x.ID, x.TestCode, truncate(x.Title, 28), string(x.Type), truncate(x.MaterialName, 16), x.Date, string(x.Status)})
					}
					if err := renderTable(w, []string{"ID", "Code", "Title", "Type", "Material", "Date", "Status"}, rows); err != nil {
						return err
					}
					keys := make([]string, 0, len(list.Counts))
					for k := range list.Counts {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					parts := make([]string, 0, len(keys))
					for _, k := range keys {
						parts = append(parts, fmt.Sprintf("%s=%d", k, list.Counts[k]))
					}
					fmt.Fprintf(w, "\n%s\n", strings.Join(parts, " "))
					return nil
				})
			})
		},
	}
	listCmd.Flags().StringVar(&typ, "type", "", "experiment type")
	listCmd.Flags().StringVarP(&query, "query", "q", "", "search text")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an experiment with its conditions and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
				x, err := p.Catalog.Experiment(ctx, args[0])
				if err != nil {
					return err
				}
				return emit(cmd, cliCtx, x, func(w io.Writer) error {
					printKeyValues(w, [][2]string{
						{"ID", x.ID},
						{"编号", x.TestCode},
						{"标题", x.Title},
						{"类型", string(x.Type)},
						{"材料", x.MaterialName},
						{"日期", x.Date},
						{"状态", string(x.Status)},
						{"标准", orDash(x.Standard)},
						{"操作员", orDash(x.Operator)},
					})
					sectionHeading(w, "试验条件")
					printKeyValues(w, attributePairs(x.Conditions))
					sectionHeading(w, "试验结果")
					printKeyValues(w, attributePairs(x.Results))
					return nil
				})
			})
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}
