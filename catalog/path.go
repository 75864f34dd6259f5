package catalog

import (
	"fmt"

	"ogm/association"
	"ogm/cypher"
	apperrors "ogm/errors"
	"ogm/inflect"
	"ogm/model"
)

// PathOptions 完整路径片段的变量与关系属性
type PathOptions struct {
	From        string
	Rel         string
	To          string
	Props       cypher.Properties
	ForCreation bool
	Reverse     bool
}

// Path 渲染 (from:Owner)-[rel]->(to:Target) 形式的完整路径片段。
// 目标类不唯一（多态或任意类）时目标节点不带标签。
func (c *Catalog) Path(class, name string, opts PathOptions) (string, error) {
	owner, err := c.owner(inflect.Qualify(class))
	if err != nil {
		return "", err
	}
	a, ok := owner.Associations()[name]
	if !ok {
		return "", apperrors.NewError(apperrors.ErrCodeNotFound,
			fmt.Sprintf("class %s has no association %q", inflect.Qualify(class), name))
	}

	render := a.PatternFragment
	if opts.Reverse {
		render = a.ReversePatternFragment
	}
	rel, err := render(opts.Rel, opts.Props, opts.ForCreation)
	if err != nil {
		return "", err
	}

	from, err := cypher.NodePattern(opts.From, labelsOf(owner), nil)
	if err != nil {
		return "", err
	}
	targetLabels, err := targetLabels(a)
	if err != nil {
		return "", err
	}
	to, err := cypher.NodePattern(opts.To, targetLabels, nil)
	if err != nil {
		return "", err
	}
	return from + rel + to, nil
}

func targetLabels(a *association.Association) ([]string, error) {
	polymorphic, err := a.IsPolymorphic()
	if err != nil || polymorphic {
		return nil, err
	}
	target, err := a.TargetClass()
	if err != nil {
		return nil, err
	}
	return labelsOf(target), nil
}

func labelsOf(c association.Class) []string {
	if node, ok := c.(*model.NodeClass); ok {
		return node.Labels()
	}
	return nil
}
