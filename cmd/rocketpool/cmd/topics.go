package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rocketpool/rocketpool-web/cmd/rocketpool/internal/topics"
	"github.com/rocketpool/rocketpool-web/internal/topicmgr"
)

func newTopicsCommand() *cobra.Command {
	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "Explore the event topics used by the web UI",
		Long: `The topics command lists and inspects the bus topics the web UI publishes.

Examples:
  rocketpool topics list
  rocketpool topics list --module Init
  rocketpool topics list --scope framework --format json
  rocketpool topics get rocketPool/Init/accountChanged
  rocketpool topics validate rocketPool/Init/networkDetected`,
	}
	topicsCmd.AddCommand(newTopicsListCommand(), newTopicsGetCommand(), newTopicsValidateCommand())
	return topicsCmd
}

func newTopicsListCommand() *cobra.Command {
	var format, module, scope string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all registered topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := filterTopics(topicmgr.Default(), module, scope)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 && format == "table" {
				var filters []string
				if module != "" {
					filters = append(filters, fmt.Sprintf("module '%s'", module))
				}
				if scope != "" {
					filters = append(filters, fmt.Sprintf("scope '%s'", scope))
				}
				msg := "No topics found"
				if len(filters) > 0 {
					msg += " matching: " + strings.Join(filters, ", ")
				}
				fmt.Fprintln(out, msg)
				return nil
			}

			switch format {
			case "json":
				return topics.WriteJSON(out, list)
			case "table":
				return topics.WriteTable(out, list)
			default:
				return fmt.Errorf("unsupported output format '%s', use 'table' or 'json'", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&module, "module", "m", "", "Filter topics by module name")
	cmd.Flags().StringVarP(&scope, "scope", "s", "", "Filter topics by scope (framework, module)")
	return cmd
}

func filterTopics(m *topicmgr.Manager, module, scope string) ([]topicmgr.Topic, error) {
	var list []topicmgr.Topic
	if module != "" {
		list = m.ListByModule(module)
	} else {
		list = m.List()
	}

	if scope != "" {
		s, err := topicmgr.ParseScope(strings.ToLower(scope))
		if err != nil {
			return nil, err
		}
		var kept []topicmgr.Topic
		for _, t := range list {
			if t.Scope() == s {
				kept = append(kept, t)
			}
		}
		list = kept
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list, nil
}

func newTopicsGetCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <topic-name>",
		Short: "Show a single topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := topicmgr.Default().Lookup(args[0])
			if err != nil {
				return err
			}
			return topics.WriteDetails(cmd.OutOrStdout(), topic, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

func newTopicsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <topic-name>",
		Short: "Check a topic name against the naming rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := topicmgr.Default().ValidateTopicName(args[0]); err != nil {
				return fmt.Errorf("invalid topic %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Topic '%s' is valid\n", args[0])
			return nil
		},
	}
}
