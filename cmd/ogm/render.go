package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ogm/association"
	"ogm/catalog"
	"ogm/cypher"
	"ogm/model"
)

type renderOptions struct {
	variable string
	create   bool
	reverse  bool
	props    []string
	propMap  string

	path bool
	from string
	to   string
}

func newRenderCmd(e *env) *cobra.Command {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render CLASS.ASSOCIATION",
		Short: "Render the relationship fragment of an association",
		Example: `  # Match fragment
  ogm render Person.friends --var r

  # Creation fragment with properties
  ogm render Person.friends --create --prop since=2020 --prop note=met

  # Properties as a flow map, single keys overridden by --prop
  ogm render Person.friends --create --props '{since: 2020, close: true}' -p close=false

  # Full path with node labels
  ogm render Person.friends --path --from a --to b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lookupAssociation(e.registry, args[0])
			if err != nil {
				return err
			}
			props, err := parsePropMap(ro.propMap)
			if err != nil {
				return err
			}
			if props, err = parseProps(props, ro.props); err != nil {
				return err
			}

			if ro.path {
				class, name, _ := strings.Cut(args[0], ".")
				path, err := e.catalog.Path(class, name, catalog.PathOptions{
					From: ro.from, Rel: ro.variable, To: ro.to,
					Props: props, ForCreation: ro.create, Reverse: ro.reverse,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			}

			render := a.PatternFragment
			if ro.reverse {
				render = a.ReversePatternFragment
			}
			fragment, err := render(ro.variable, props, ro.create)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return err
		},
	}

	cmd.Flags().StringVar(&ro.variable, "var", "", "relationship variable")
	cmd.Flags().BoolVar(&ro.create, "create", false, "render for relationship creation")
	cmd.Flags().BoolVar(&ro.reverse, "reverse", false, "render with the direction reversed")
	cmd.Flags().StringArrayVarP(&ro.props, "prop", "p", nil, "relationship property key=value (repeatable)")
	cmd.Flags().StringVar(&ro.propMap, "props", "", "relationship properties as a YAML/JSON map, keys rendered sorted")
	cmd.Flags().BoolVar(&ro.path, "path", false, "render the full path including both nodes")
	cmd.Flags().StringVar(&ro.from, "from", "", "owner node variable (with --path)")
	cmd.Flags().StringVar(&ro.to, "to", "", "target node variable (with --path)")
	return cmd
}

func lookupAssociation(r *model.Registry, ref string) (*association.Association, error) {
	class, name, ok := strings.Cut(ref, ".")
	if !ok || class == "" || name == "" {
		return nil, fmt.Errorf("expected CLASS.ASSOCIATION, got %q", ref)
	}

	cls, err := r.ResolveClass(class)
	if err != nil {
		return nil, err
	}
	node, ok := cls.(*model.NodeClass)
	if !ok {
		return nil, fmt.Errorf("%s is not a node class", class)
	}
	a, ok := node.Association(name)
	if !ok {
		return nil, fmt.Errorf("%s has no association %q", class, name)
	}
	return a, nil
}

// parsePropMap 解析 --props 的映射字面量
func parsePropMap(raw string) (cypher.Properties, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var m map[string]any
	if err := yaml.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("invalid --props map: %w", err)
	}
	return cypher.FromMap(m), nil
}

// parseProps 在 base 上叠加 key=value；值按 null、布尔、整数、浮点的顺序推断，其余为字符串
func parseProps(base cypher.Properties, raw []string) (cypher.Properties, error) {
	props := base
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q, expected key=value", kv)
		}
		props = props.With(key, parseValue(value))
	}
	return props, nil
}

func parseValue(s string) any {
	switch s {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
