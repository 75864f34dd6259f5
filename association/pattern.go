package association

import (
	"fmt"

	"ogm/cypher"
)

// PatternFragment 渲染带方向的关系模式片段，例如 -[r:`KNOWS` {since: 2020}]->。
//
// variable 为空时省略变量。关系类型仅在 forCreation 为 true 或类型由声明显式给出
// （RelationshipType、RelationshipClass、Origin）时输出，其余匹配场景不限制类型。
// props 非空时以字面量形式追加在类型之后。出错时不返回部分片段。
// CREATE 要求关系有方向，因此 both 方向在 forCreation 时按 out 渲染。
func (a *Association) PatternFragment(variable string, props cypher.Properties, forCreation bool) (string, error) {
	return a.fragment(a.direction, variable, props, forCreation)
}

// ReversePatternFragment 与 PatternFragment 相同，但方向取反，
// 用于从目标一侧出发书写的模式
func (a *Association) ReversePatternFragment(variable string, props cypher.Properties, forCreation bool) (string, error) {
	return a.fragment(a.direction.Reverse(), variable, props, forCreation)
}

func (a *Association) fragment(direction Direction, variable string, props cypher.Properties, forCreation bool) (string, error) {
	if forCreation && direction == Both {
		direction = Out
	}

	var relType string
	if forCreation || a.HasExplicitType() {
		t, err := a.RelationshipType()
		if err != nil {
			return "", err
		}
		relType = t
	}

	rel, err := cypher.RelationshipPattern(variable, relType, props)
	if err != nil {
		return "", fmt.Errorf("association %q: %w", a.name, err)
	}
	return arrowFor(direction).Wrap(rel), nil
}

func arrowFor(d Direction) cypher.Arrow {
	switch d {
	case In:
		return cypher.ArrowIn
	case Both:
		return cypher.ArrowBoth
	default:
		return cypher.ArrowOut
	}
}
