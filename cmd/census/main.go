// Command census is a small front end over the library for ad-hoc queries:
//
//	export CENSUS_API_KEY=...
//	census get NAME,B01001_001E --for state:06
//	census tables --dataset acs1
//	census fields --dataset acs5 --year 2019
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Metopio/census"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	dataset string
	year    int
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "census",
		Short:         "Query the U.S. Census Bureau data API",
		Version:       census.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("key", "", "API key (defaults to CENSUS_API_KEY)")
	root.PersistentFlags().StringVar(&opts.dataset, "dataset", "acs5", "dataset path, e.g. acs5, acs1/profile, pl")
	root.PersistentFlags().IntVar(&opts.year, "year", 0, "year (0 = dataset default)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	viper.SetEnvPrefix("census")
	viper.AutomaticEnv()
	if err := viper.BindPFlag("api_key", root.PersistentFlags().Lookup("key")); err != nil {
		panic(err)
	}

	root.AddCommand(newGetCmd(opts))
	root.AddCommand(newTablesCmd(opts))
	root.AddCommand(newFieldsCmd(opts))
	root.AddCommand(newDatasetsCmd())

	return root
}

// client resolves the API key and dataset for one invocation.
func (o *options) client() (*census.Client, error) {
	key := viper.GetString("api_key")
	if key == "" {
		return nil, errors.New("no API key: pass --key or set CENSUS_API_KEY")
	}

	clientOpts := []census.Option{}
	if o.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, errors.Wrap(err, "init logger")
		}
		clientOpts = append(clientOpts, census.WithLogger(zapLogger{logger.Sugar()}))
	}

	c := census.New(key, clientOpts...)
	client, ok := c.Client(o.dataset)
	if !ok {
		return nil, errors.Errorf("unknown dataset %q (known: %s)", o.dataset, strings.Join(c.Datasets(), ", "))
	}
	return client, nil
}

func (o *options) callOpts() []census.CallOption {
	if o.year != 0 {
		return []census.CallOption{census.WithYear(o.year)}
	}
	return nil
}

func newGetCmd(opts *options) *cobra.Command {
	var forClause, inClause string

	cmd := &cobra.Command{
		Use:   "get FIELD[,FIELD...]",
		Short: "Fetch fields for a geography",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			geo, err := parseGeography(forClause, inClause)
			if err != nil {
				return err
			}

			fields := strings.Split(args[0], ",")
			rows, err := client.Get(cmd.Context(), fields, geo, opts.callOpts()...)
			if err != nil {
				return errors.Wrap(err, "fetch")
			}
			renderRows(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&forClause, "for", "", `target geography, e.g. "state:06" or "tract:810100"`)
	cmd.Flags().StringVar(&inClause, "in", "", `containing geography, e.g. "state:17 county:031"`)
	if err := cmd.MarkFlagRequired("for"); err != nil {
		panic(err)
	}

	return cmd
}

func newTablesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the data tables available from a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			tables, err := client.Tables(cmd.Context(), opts.callOpts()...)
			if err != nil {
				return errors.Wrap(err, "list tables")
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Name", "Description"})
			for _, t := range tables {
				tw.AppendRow(table.Row{t.Name, t.Description})
			}
			tw.Render()
			return nil
		},
	}
}

func newFieldsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the queryable fields of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			fields, err := client.FieldsFlat(cmd.Context(), opts.callOpts()...)
			if err != nil {
				return errors.Wrap(err, "list fields")
			}

			names := make([]string, 0, len(fields))
			for name := range fields {
				names = append(names, name)
			}
			sort.Strings(names)

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Field", "Description"})
			for _, name := range names {
				tw.AppendRow(table.Row{name, fields[name]})
			}
			tw.Render()
			return nil
		},
	}
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the supported dataset paths",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			paths := census.New("").Datasets()
			sort.Strings(paths)
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
		},
	}
}

// parseGeography turns raw "level:id" clauses into a selector.
func parseGeography(forClause, inClause string) (census.Geography, error) {
	forPair, err := parseGeoPair(forClause)
	if err != nil {
		return census.Geography{}, errors.Wrap(err, "--for")
	}

	var in []census.GeoPair
	for _, clause := range strings.Fields(inClause) {
		pair, err := parseGeoPair(clause)
		if err != nil {
			return census.Geography{}, errors.Wrap(err, "--in")
		}
		in = append(in, pair)
	}
	return census.NewGeography(forPair, in...), nil
}

func parseGeoPair(clause string) (census.GeoPair, error) {
	level, id, ok := strings.Cut(clause, ":")
	if !ok || level == "" || id == "" {
		return census.GeoPair{}, errors.Errorf("malformed geography clause %q, want level:id", clause)
	}
	return census.GeoPair{Level: level, ID: id}, nil
}

func renderRows(out io.Writer, rows []census.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "no results")
		return
	}

	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	header := make(table.Row, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(header)
	for _, row := range rows {
		cells := make(table.Row, len(columns))
		for i, column := range columns {
			if row[column] == nil {
				cells[i] = ""
				continue
			}
			cells[i] = row[column]
		}
		tw.AppendRow(cells)
	}
	tw.Render()
}

// zapLogger adapts a zap sugared logger to the library's Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }
func (l zapLogger) Info(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l zapLogger) Warn(msg string, keysAndValues ...any)  { l.s.Warnw(msg, keysAndValues...) }
func (l zapLogger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }
