// Package decl 从 YAML 声明文件加载节点类、关系类及其关联到注册表。
//
// 文件格式：
//
//	relationships:
//	  - name: OwnsCar
//	    type: OWNS
//	    from: Person
//	    to: any
//	nodes:
//	  - name: Person
//	    labels: [Person, Human]
//	    associations:
//	      - name: cars
//	        kind: has_many
//	        direction: out
//	        rel_class: OwnsCar
//	      - name: things
//	        kind: has_many
//	        direction: both
//	        type: OWNS
//	        model_class: false
package decl

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"ogm/association"
	apperrors "ogm/errors"
	"ogm/logging"
	"ogm/model"
	"ogm/validation"
)

// ErrInvalidDeclaration 声明文件内容不合法
var ErrInvalidDeclaration = stdErrors.New("decl: invalid declaration")

// AnyClass 端点声明为任意类时使用的值
const AnyClass = "any"

// File 声明文件
type File struct {
	Relationships []Relationship `yaml:"relationships"`
	Nodes         []Node         `yaml:"nodes"`
}

// Relationship 关系类声明
type Relationship struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Node 节点类声明
type Node struct {
	Name         string        `yaml:"name"`
	Labels       []string      `yaml:"labels"`
	Associations []Association `yaml:"associations"`
}

// Association 关联声明
type Association struct {
	Name       string     `yaml:"name"`
	Kind       string     `yaml:"kind"`
	Direction  string     `yaml:"direction"`
	Type       string     `yaml:"type"`
	Origin     string     `yaml:"origin"`
	RelClass   string     `yaml:"rel_class"`
	ModelClass ModelClass `yaml:"model_class"`
	Unique     bool       `yaml:"unique"`

	line int
}

// UnmarshalYAML 记录声明所在行，用于错误信息
func (a *Association) UnmarshalYAML(value *yaml.Node) error {
	type plain Association
	if err := value.Decode((*plain)(a)); err != nil {
		return err
	}
	a.line = value.Line
	return nil
}

// ModelClass 目标类声明：类名、类名列表，或 false 表示任意类
type ModelClass struct {
	Names   []string
	Untyped bool
}

// UnmarshalYAML 支持 false、字符串与字符串列表三种写法
func (m *ModelClass) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!bool" {
			var b bool
			if err := value.Decode(&b); err != nil {
				return err
			}
			if b {
				return fmt.Errorf("line %d: model_class accepts false, a class name or a list of class names", value.Line)
			}
			m.Untyped = true
			return nil
		}
		if value.ShortTag() == "!!null" {
			return nil
		}
		m.Names = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		return value.Decode(&m.Names)
	default:
		return fmt.Errorf("line %d: model_class accepts false, a class name or a list of class names", value.Line)
	}
}

func (m ModelClass) ref() association.ModelClassRef {
	switch {
	case m.Untyped:
		return association.Untyped()
	case len(m.Names) > 0:
		return association.ModelClassName(m.Names...)
	default:
		return association.ModelClassRef{}
	}
}

// Parse 解析声明内容，未知字段视为错误
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if stdErrors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, apperrors.WrapError(ErrInvalidDeclaration, apperrors.ErrCodeInvalidInput, err.Error())
	}
	return &f, nil
}

// Load 解析声明并定义到注册表：先关系类，再节点类，最后关联，
// 因此关联可以引用文件中任意位置声明的类。
func Load(r io.Reader, registry *model.Registry) error {
	f, err := Parse(r)
	if err != nil {
		return err
	}
	return f.Apply(registry)
}

// LoadFile 从文件加载声明
func LoadFile(path string, registry *model.Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		code := apperrors.ErrCodeInvalidInput
		if stdErrors.Is(err, fs.ErrNotExist) {
			code = apperrors.ErrCodeNotFound
		}
		return apperrors.WrapWithLog(context.Background(), err, code, "读取声明文件失败",
			logging.String("path", path))
	}
	if err := Load(bytes.NewReader(data), registry); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Apply 将声明定义到注册表
func (f *File) Apply(registry *model.Registry) error {
	logger := logging.GetLogger().WithFields(logging.String("component", "model.decl"))

	for _, rd := range f.Relationships {
		if err := validation.ValidateIdentifier(rd.Name, "关系类名"); err != nil {
			return invalid(err)
		}
		rel, err := registry.DefineRel(rd.Name, rd.Type)
		if err != nil {
			return err
		}
		rel.FromClass(endpoint(rd.From)).ToClass(endpoint(rd.To))
	}

	nodes := make([]*model.NodeClass, len(f.Nodes))
	for i, nd := range f.Nodes {
		if err := validation.ValidateIdentifier(nd.Name, "节点类名"); err != nil {
			return invalid(err)
		}
		var opts []model.NodeOption
		if len(nd.Labels) > 0 {
			opts = append(opts, model.WithLabels(nd.Labels...))
		}
		node, err := registry.DefineNode(nd.Name, opts...)
		if err != nil {
			return err
		}
		nodes[i] = node
	}

	for i, nd := range f.Nodes {
		for _, ad := range nd.Associations {
			if err := declare(nodes[i], ad); err != nil {
				return err
			}
		}
	}

	logger.Info(context.Background(), "模型声明已加载",
		logging.Int("relationships", len(f.Relationships)), logging.Int("nodes", len(f.Nodes)))
	return nil
}

func declare(node *model.NodeClass, ad Association) error {
	if err := validation.ValidateIdentifier(ad.Name, "关联名"); err != nil {
		return atLine(ad, invalid(err))
	}
	kind, err := association.ParseKind(ad.Kind)
	if err != nil {
		return atLine(ad, err)
	}
	direction, err := association.ParseDirection(ad.Direction)
	if err != nil {
		return atLine(ad, err)
	}

	options := association.Options{
		RelationshipType: ad.Type,
		Origin:           ad.Origin,
		ModelClass:       ad.ModelClass.ref(),
		Unique:           ad.Unique,
	}
	if ad.RelClass != "" {
		options.RelationshipClass = association.RelClassName(ad.RelClass)
	}

	if _, err := node.Declare(kind, direction, ad.Name, options); err != nil {
		return atLine(ad, err)
	}
	return nil
}

func endpoint(name string) association.Endpoint {
	if name == "" || name == AnyClass {
		return association.AnyEndpoint()
	}
	return association.EndpointNamed(name)
}

func invalid(cause error) error {
	return apperrors.WrapError(ErrInvalidDeclaration, apperrors.ErrCodeInvalidInput, cause.Error())
}

// atLine 附加关联名与行号，错误码沿用 err 的错误码
func atLine(ad Association, err error) error {
	msg := fmt.Sprintf("association %q", ad.Name)
	if ad.line > 0 {
		msg = fmt.Sprintf("line %d: %s", ad.line, msg)
	}
	return apperrors.WrapError(err, apperrors.GetErrorCode(err), msg).
		WithContext("association", ad.Name).
		WithContext("line", ad.line)
}
