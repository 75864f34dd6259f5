// Package inflect 由关联名推导类名与关系类型
package inflect

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// RootNamespace 根命名空间前缀，限定名形如 "::Person"
const RootNamespace = "::"

// Singular 返回单数形式
func Singular(word string) string {
	return inflection.Singular(word)
}

// ClassName 由关联名推导目标类名：各段首字母大写拼接，再将最后一个单词单数化，
// 其余字母大小写保持不变。例如 burzs -> Burz、best_friends -> BestFriend、
// HTTPLinks -> HTTPLink、friendsWith -> FriendsWith。
func ClassName(associationName string) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(associationName, isSeparator) {
		r, size := utf8.DecodeRuneInString(part)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(part[size:])
	}
	camel := sb.String()

	i := lastWordStart(camel)
	return camel[:i] + Singular(camel[i:])
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// lastWordStart 最后一个单词的起始下标：最后一个后跟小写字母的大写字母，
// 因此 HTTPLinks 的最后一个单词是 Links
func lastWordStart(camel string) int {
	start := 0
	prev := rune(0)
	prevIdx := 0
	for i, r := range camel {
		if unicode.IsLower(r) && unicode.IsUpper(prev) {
			start = prevIdx
		}
		prev, prevIdx = r, i
	}
	return start
}

// RelationshipType 由关联名推导默认关系类型：大写蛇形，例如 default -> DEFAULT、friendsWith -> FRIENDS_WITH
func RelationshipType(associationName string) string {
	return strcase.ToScreamingSnake(associationName)
}

// Qualify 加上根命名空间前缀，已限定的名称原样返回
func Qualify(className string) string {
	if className == "" || strings.HasPrefix(className, RootNamespace) {
		return className
	}
	return RootNamespace + className
}

// Unqualify 去掉根命名空间前缀
func Unqualify(qualifiedName string) string {
	return strings.TrimPrefix(qualifiedName, RootNamespace)
}
