package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	appcatalog "github.com/turtacn/AgriMat-Platform/internal/application/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/application/reporting"
	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// materialListOptions are the flags shared by materials list and search.
type materialListOptions struct {
	category string
	filters  []string
	sortBy   string
	order    string
	page     string
	pageSize string
}

func (o *materialListOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.category, "category", "", "material category: 钢材|铝合金|涂层材料")
	f.StringArrayVarP(&o.filters, "filter", "f", nil, "facet filter key=value[,value] (repeatable), e.g. shape=板材")
	f.StringVar(&o.sortBy, "sort", "", "sort column: name|grade|shape|supplyCondition|...")
	f.StringVar(&o.order, "order", "asc", "sort order: asc|desc")
	f.StringVar(&o.page, "page", "1", "page number")
	f.StringVar(&o.pageSize, "page-size", "0", "page size (0 uses the configured default)")
}

// request turns the flags into a search request. Numbers go through cast so
// that "02" and " 3 " are accepted like the HTTP query string.
func (o *materialListOptions) request(query string) (appcatalog.SearchRequest, error) {
	page, err := cast.ToIntE(strings.TrimSpace(o.page))
	if err != nil || page < 0 {
		return appcatalog.SearchRequest{}, errors.InvalidParam("invalid page").WithDetail(o.page)
	}
	size, err := cast.ToIntE(strings.TrimSpace(o.pageSize))
	if err != nil || size < 0 {
		return appcatalog.SearchRequest{}, errors.InvalidParam("invalid page size").WithDetail(o.pageSize)
	}

	values := url.Values{}
	for _, f := range o.filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return appcatalog.SearchRequest{}, errors.InvalidParam("invalid filter").WithDetail(f + " (want key=value)")
		}
		values.Add(appcatalog.FilterParamPrefix+strings.TrimSpace(key), value)
	}

	return appcatalog.SearchRequest{
		Category: domain.Category(o.category),
		Query:    query,
		Filters:  appcatalog.ParseFilters(values),
		SortBy:   o.sortBy,
		Order:    common.ParseSortOrder(o.order),
		Page:     common.PageRequest{Page: page, PageSize: size},
	}, nil
}

// NewMaterialsCmd creates the materials command group.
func NewMaterialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials",
		Aliases: []string{"material", "m"},
		Short:   "Browse the material catalog",
	}

	listOpts := &materialListOptions{}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List materials, optionally filtered by category and facets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialSearch(cmd, listOpts, "")
		},
	}
	listOpts.bind(listCmd)

	searchOpts := &materialListOptions{}
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search materials by name, grade or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialSearch(cmd, searchOpts, args[0])
		},
	}
	searchOpts.bind(searchCmd)

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the data sheet of a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialShow(cmd, args[0])
		},
	}

	var exportFormat, exportOut string
	exportCmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a material data sheet as CSV or a text report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialExport(cmd, args[0], exportFormat, exportOut)
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", reporting.FormatCSV, "export format: csv|txt")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: the export filename; - for stdout)")

	facetsCmd := &cobra.Command{
		Use:   "facets <category>",
		Short: "List the filter facets of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialFacets(cmd, args[0])
		},
	}

	cmd.AddCommand(listCmd, searchCmd, showCmd, exportCmd, facetsCmd)
	return cmd
}

func runMaterialSearch(cmd *cobra.Command, opts *materialListOptions, query string) error {
	return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
		req, err := opts.request(query)
		if err != nil {
			return err
		}
		page, err := p.Catalog.SearchMaterials(ctx, req)
		if err != nil {
			return err
		}
		cliCtx.Logger.Debug("materials listed",
			logging.String("category", opts.category),
			logging.Int("total", page.Total))

		return emit(cmd, cliCtx, page, func(w io.Writer) error {
			if cliCtx.OutputFormat == OutputText {
				for _, m := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, orDash(m.Grade), m.Category)
				}
			} else {
				rows := make([][]string, 0, len(page.Items))
				for _, m := range page.Items {
					rows = append(rows, []string{m.ID, truncate(m.Name, 24), orDash(m.Grade), string(m.Category), orDash(m.Shape), truncate(orDash(m.Standard), 24)})
				}
				if err := renderTable(w, []string{"ID", "Name", "Grade", "Category", "Shape", "Standard"}, rows); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "\npage %d/%d, %d materials\n", page.Page, page.TotalPages, page.Total)
			return nil
		})
	})
}

func runMaterialShow(cmd *cobra.Command, id string) error {
	return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
		detail, err := p.Catalog.Material(ctx, id)
		if err != nil {
			return err
		}
		return emit(cmd, cliCtx, detail, func(w io.Writer) error {
			m := detail.Material
			printKeyValues(w, [][2]string{
				{"ID", m.ID},
				{"名称", m.Name},
				{"类别", string(m.Category)},
				{"牌号", orDash(m.Grade)},
				{"形态", orDash(m.Shape)},
				{"标准", orDash(m.Standard)},
				{"描述", orDash(m.Description)},
			})
			for _, sec := range detail.Sections {
				sectionHeading(w, sec.Title)
				printKeyValues(w, attributePairs(sec.Attributes))
			}
			if len(detail.UsedIn) > 0 {
				sectionHeading(w, "应用部件")
				for _, ref := range detail.UsedIn {
					fmt.Fprintf(w, "%s %s (%s %s)\n", ref.PartID, ref.PartName, ref.EquipmentID, ref.EquipmentName)
				}
			}
			return nil
		})
	})
}

func runMaterialExport(cmd *cobra.Command, id, format, out string) error {
	return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
		var (
			a   *reporting.Artifact
			err error
		)
		switch strings.ToLower(format) {
		case reporting.FormatCSV:
			a, err = p.Reports.MaterialCSV(ctx, id)
		case reporting.FormatReport, "report":
			a, err = p.Reports.MaterialReport(ctx, id)
		default:
			return errors.InvalidParam("invalid export format").WithDetail(format + " (must be csv|txt)")
		}
		if err != nil {
			return err
		}
		if out == "" {
			out = a.Filename
		}
		return writeOutput(cmd, out, a.Data)
	})
}

func runMaterialFacets(cmd *cobra.Command, category string) error {
	return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
		facets, columns, err := p.Catalog.Facets(domain.Category(category))
		if err != nil {
			return err
		}
		data := map[string]interface{}{"category": category, "facets": facets, "columns": columns}
		return emit(cmd, cliCtx, data, func(w io.Writer) error {
			rows := make([][]string, 0, len(facets))
			for _, f := range facets {
				rows = append(rows, []string{string(f.Facet), f.Label, strings.Join(f.Options, ", ")})
			}
			return renderTable(w, []string{"Facet", "Label", "Options"}, rows)
		})
	})
}
