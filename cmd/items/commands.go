package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	items "github.com/goliatone/go-items"
	"github.com/goliatone/go-items/formats"
	"github.com/goliatone/go-items/pkg/accesspoint"
	"github.com/goliatone/go-items/pkg/logging"
	"github.com/goliatone/go-items/pkg/query"
)

type rootFlags struct {
	config string
	debug  bool
}

type session struct {
	ap     *accesspoint.FS
	reg    *items.Registry
	logger *zap.Logger
	opts   []items.Option
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "items",
		Short:         "Inspect items stored under a filesystem access point",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "items.yaml", "Access point configuration file")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Log item operations")

	cmd.AddCommand(newShowCommand(flags), newCatCommand(flags))
	return cmd
}

func (f *rootFlags) open() (*session, error) {
	cfg, err := accesspoint.Load(f.config)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if f.debug {
		if logger, err = logging.New(true); err != nil {
			return nil, errors.Wrap(err, "items: build logger")
		}
	}
	return &session{
		ap:     accesspoint.NewFS(*cfg),
		reg:    formats.Load(),
		logger: logger,
		opts:   []items.Option{items.WithLogger(logging.NewZap(logger))},
	}, nil
}

func newShowCommand(flags *rootFlags) *cobra.Command {
	var expression string
	var engine string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List items and their properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			list, err := s.ap.Items(s.reg, s.opts...)
			if err != nil {
				return err
			}
			if expression != "" {
				evaluator, err := query.NewEvaluator(engine)
				if err != nil {
					return err
				}
				matcher := query.NewMatcher(evaluator, query.WithLogger(logging.NewZap(s.logger)))
				if list, err = matcher.Filter(list, expression); err != nil {
					return err
				}
			}
			for _, item := range list {
				if err := printItem(cmd.OutOrStdout(), item); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&expression, "expr", "e", "", "Only show items matching this condition")
	cmd.Flags().StringVar(&engine, "engine", query.EngineExpr, "Condition language: expr, cel or js")
	return cmd
}

func newCatCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print the serialized form of one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			item, err := s.ap.Item(s.reg, args[0], s.opts...)
			if err != nil {
				return err
			}
			payload, err := item.Serialize()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
}

func printItem(w io.Writer, item items.Item) error {
	props, err := item.Properties().Snapshot()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%s [%s]\n", item.ID(), item.Format())
	for _, name := range names {
		values := props[name]
		if name == items.ContentKey {
			value := props.Get(name)
			payload, err := items.ContentBytes(value)
			if err != nil {
				fmt.Fprintf(w, "  %s: <%T>\n", name, value)
				continue
			}
			fmt.Fprintf(w, "  %s: <%d bytes>\n", name, len(payload))
			continue
		}
		if len(values) == 1 {
			fmt.Fprintf(w, "  %s: %v\n", name, values[0])
			continue
		}
		fmt.Fprintf(w, "  %s: %v\n", name, values)
	}
	return nil
}
