package cypher

import "strings"

// Arrow 关系片段的方向形状
type Arrow int

const (
	ArrowOut  Arrow = iota // -[...]->
	ArrowIn                // <-[...]-
	ArrowBoth              // -[...]-
)

// Wrap 给方括号片段加上方向箭头
func (a Arrow) Wrap(rel string) string {
	switch a {
	case ArrowIn:
		return "<-" + rel + "-"
	case ArrowBoth:
		return "-" + rel + "-"
	default:
		return "-" + rel + "->"
	}
}

// RelationshipPattern 渲染方括号内的关系部分：`[var:`TYPE` {props}]`。
// variable、relType 为空时省略对应部分。
func RelationshipPattern(variable, relType string, props Properties) (string, error) {
	propsLiteral, err := RenderPropertyMap(props)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(variable)
	if relType != "" {
		sb.WriteByte(':')
		sb.WriteString(QuoteIdentifier(relType))
	}
	if propsLiteral != "" {
		sb.WriteByte(' ')
		sb.WriteString(propsLiteral)
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// NodePattern 渲染节点部分：`(var:`Label1`:`Label2` {props})`
func NodePattern(variable string, labels []string, props Properties) (string, error) {
	propsLiteral, err := RenderPropertyMap(props)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(variable)
	for _, label := range labels {
		if label == "" {
			continue
		}
		sb.WriteByte(':')
		sb.WriteString(QuoteIdentifier(label))
	}
	if propsLiteral != "" {
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(propsLiteral)
	}
	sb.WriteByte(')')
	return sb.String(), nil
}
