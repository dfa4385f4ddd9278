package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/javajack/factgrid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cli is the factgrid command tree.
type cli struct {
	out     io.Writer
	rootCmd *cobra.Command

	configPath string
	outPath    string
	verbose    bool
}

func newCLI(out io.Writer) *cli {
	c := &cli{out: out}
	c.rootCmd = c.newRootCmd()
	return c
}

func (c *cli) Execute() error {
	return c.rootCmd.Execute()
}

func (c *cli) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "factgrid",
		Short:         "Project tagged financial facts onto statement grids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (yaml, toml or json)")
	cmd.PersistentFlags().StringVarP(&c.outPath, "out", "o", "", "write the report to this xlsx file instead of describing it")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log informational trace messages")

	cmd.AddCommand(c.newRenderCmd())
	cmd.AddCommand(c.newEquityCmd())
	cmd.AddCommand(c.newValidateCmd())
	return cmd
}

func (c *cli) newRenderCmd() *cobra.Command {
	var rows, cols string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sample statement onto row and column iterators",
		Example: `  factgrid render --rows element --cols period,unit
  factgrid render --cols "period,axis:Geography:grouped" -o geo.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rowIters, err := parseIterators(rows)
			if err != nil {
				return fmt.Errorf("rows: %w", err)
			}
			colIters, err := parseIterators(cols)
			if err != nil {
				return fmt.Errorf("columns: %w", err)
			}
			engine, err := c.engine()
			if err != nil {
				return err
			}
			report, err := engine.Render(sampleStatement(), rowIters, colIters)
			if err != nil {
				return err
			}
			return c.emit(engine, report)
		},
	}
	cmd.Flags().StringVar(&rows, "rows", "element", "comma-separated row iterators")
	cmd.Flags().StringVar(&cols, "cols", "period,unit", "comma-separated column iterators")
	return cmd
}

func (c *cli) newEquityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equity",
		Short: "Render the sample changes-in-equity statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			report, err := engine.RenderEquity(sampleEquity())
			if err != nil {
				return err
			}
			return c.emit(engine, report)
		},
	}
}

func (c *cli) newValidateCmd() *cobra.Command {
	var rows, cols string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check row and column iterators without rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			rowIters, err := parseIterators(rows)
			if err != nil {
				return fmt.Errorf("rows: %w", err)
			}
			colIters, err := parseIterators(cols)
			if err != nil {
				return fmt.Errorf("columns: %w", err)
			}
			engine, err := c.engine()
			if err != nil {
				return err
			}
			issues := engine.Validate(rowIters, colIters)
			for _, issue := range issues {
				fmt.Fprintln(c.out, issue)
			}
			for _, issue := range issues {
				if issue.Severity == factgrid.SeverityError {
					return fmt.Errorf("%d issue(s) found", len(issues))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rows, "rows", "element", "comma-separated row iterators")
	cmd.Flags().StringVar(&cols, "cols", "period,unit", "comma-separated column iterators")
	return cmd
}

// engine builds an Engine from the config file, if any, with trace
// messages logged through zerolog.
func (c *cli) engine() (*factgrid.Engine, error) {
	level := zerolog.WarnLevel
	if c.verbose {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	opts := []factgrid.Option{factgrid.WithTrace(factgrid.NewZerologTrace(logger))}
	if c.configPath != "" {
		cfg, err := factgrid.LoadConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		fromConfig, err := cfg.Options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, fromConfig...)
	} else {
		opts = append(opts, factgrid.WithDefaultMember("Geography", "AllRegions", "All regions"))
	}
	return factgrid.NewEngine(opts...), nil
}

func (c *cli) emit(engine *factgrid.Engine, report *factgrid.Report) error {
	if c.outPath == "" {
		_, err := io.WriteString(c.out, factgrid.Describe(report))
		return err
	}
	f, err := os.Create(c.outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.outPath, err)
	}
	defer f.Close()
	if err := engine.WriteWorkbook(report, f); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "wrote %s\n", c.outPath)
	return nil
}

// parseIterators reads a comma-separated iterator list such as
// "element,period,axis:Geography:grouped,unit:unit-collapsed,sep:Total".
func parseIterators(list string) ([]factgrid.AxisIterator, error) {
	var out []factgrid.AxisIterator
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		var it factgrid.AxisIterator
		rest := fields[1:]
		switch strings.ToLower(fields[0]) {
		case "element":
			it = factgrid.ElementIterator()
		case "period":
			it = factgrid.PeriodIterator()
		case "unit":
			it = factgrid.UnitIterator()
		case "axis":
			if len(rest) == 0 {
				return nil, fmt.Errorf("%q: axis needs a name", part)
			}
			it = factgrid.AxisOf(rest[0])
			rest = rest[1:]
		case "sep":
			if len(rest) == 0 {
				return nil, fmt.Errorf("%q: separator needs text", part)
			}
			out = append(out, factgrid.SeparatorIterator(rest[0]))
			continue
		default:
			return nil, fmt.Errorf("%q: unknown selection %q", part, fields[0])
		}
		if len(rest) > 0 {
			style, err := parseStyle(rest[0])
			if err != nil {
				return nil, fmt.Errorf("%q: %w", part, err)
			}
			it = it.WithStyle(style)
		}
		if len(rest) > 1 {
			it = it.WithFilter(rest[1])
		}
		out = append(out, it)
	}
	return out, nil
}

func parseStyle(name string) (factgrid.Style, error) {
	for _, s := range []factgrid.Style{
		factgrid.StyleCompact,
		factgrid.StyleGrouped,
		factgrid.StyleUnitCell,
		factgrid.StyleNoDisplay,
		factgrid.StyleSegmentTitle,
	} {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown style %q", name)
}
