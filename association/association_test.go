package association

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ogm/cypher"
	apperrors "ogm/errors"
	"ogm/inflect"
)

type fakeNode struct {
	name   string
	assocs map[string]*Association
}

func (n *fakeNode) Name() string                          { return n.name }
func (n *fakeNode) Associations() map[string]*Association { return n.assocs }

type fakeRel struct {
	name     string
	relType  string
	from, to Endpoint
}

func (r *fakeRel) Name() string   { return r.name }
func (r *fakeRel) Type() string   { return r.relType }
func (r *fakeRel) From() Endpoint { return r.from }
func (r *fakeRel) To() Endpoint   { return r.to }

type fakeRegistry struct {
	mu      sync.Mutex
	classes map[string]Class
	lookups int
}

func newFakeRegistry(classes ...Class) *fakeRegistry {
	r := &fakeRegistry{classes: map[string]Class{}}
	for _, c := range classes {
		r.classes[inflect.Qualify(c.Name())] = c
	}
	return r
}

func (r *fakeRegistry) ResolveClass(name string) (Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	c, ok := r.classes[inflect.Qualify(name)]
	if !ok {
		return nil, fmt.Errorf("class %s not registered", name)
	}
	return c, nil
}

func mustNew(t *testing.T, kind Kind, dir Direction, name string, opts Options, extra ...Option) *Association {
	t.Helper()
	a, err := New(kind, dir, name, opts, extra...)
	require.NoError(t, err)
	return a
}

// TestNew_Validation 测试构造期校验
func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		dir     Direction
		assoc   string
		opts    Options
		wantErr error
	}{
		{name: "invalid kind", kind: Kind("invalid"), dir: Out, assoc: "default", wantErr: ErrInvalidAssociationKind},
		{name: "invalid direction", kind: HasMany, dir: Direction("invalid"), assoc: "default", wantErr: ErrInvalidDirection},
		{name: "empty name", kind: HasMany, dir: Out, assoc: "", wantErr: ErrInvalidName},
		{name: "origin and type", kind: HasMany, dir: Out, assoc: "default",
			opts: Options{RelationshipType: "bar", Origin: "foo"}, wantErr: ErrConflictingOptions},
		{name: "origin and rel class", kind: HasMany, dir: Out, assoc: "default",
			opts: Options{Origin: "foo", RelationshipClass: RelClassName("Bar")}, wantErr: ErrConflictingOptions},
		{name: "type and rel class", kind: HasMany, dir: Out, assoc: "default",
			opts: Options{RelationshipType: "foo", RelationshipClass: RelClassName("Bar")}, wantErr: ErrConflictingOptions},
		{name: "rel class alone", kind: HasOne, dir: In, assoc: "default",
			opts: Options{RelationshipClass: RelClassName("Bar")}},
		{name: "type alone", kind: HasOne, dir: Both, assoc: "default",
			opts: Options{RelationshipType: "foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.kind, tt.dir, tt.assoc, tt.opts)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, a)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, a)
		})
	}
}

// TestNew_ConflictNamesKeys 测试冲突错误消息包含冲突的键
func TestNew_ConflictNamesKeys(t *testing.T) {
	_, err := New(HasMany, Out, "friends", Options{
		RelationshipType:  "KNOWS",
		Origin:            "friends",
		RelationshipClass: RelClassName("Knows"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrCodeConflict))
	assert.Contains(t, err.Error(), "Origin, RelationshipType, RelationshipClass")

	var appErr apperrors.IError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"Origin", "RelationshipType", "RelationshipClass"}, appErr.Context()["keys"])
}

// TestMustNew 测试 panic 版本
func TestMustNew(t *testing.T) {
	assert.Panics(t, func() { MustNew(Kind("x"), Out, "a", Options{}) })
	assert.NotPanics(t, func() { MustNew(HasOne, Out, "a", Options{}) })
}

// TestPatternFragment 测试关系片段渲染
func TestPatternFragment(t *testing.T) {
	myRel := &fakeRel{name: "MyRel", relType: "ar_type"}
	fooBar := cypher.Props("foo", 1, "bar", "test")

	tests := []struct {
		name     string
		dir      Direction
		opts     Options
		variable string
		props    cypher.Properties
		create   bool
		want     string
	}{
		{name: "outbound", dir: Out, want: "-[]->"},
		{name: "inbound", dir: In, want: "<-[]-"},
		{name: "bidirectional", dir: Both, want: "-[]-"},
		{name: "creation", dir: Out, create: true, want: "-[:`DEFAULT`]->"},
		{name: "creation with properties", dir: Out, create: true, props: fooBar, want: "-[:`DEFAULT` {foo: 1, bar: \"test\"}]->"},
		{name: "variable", dir: Out, variable: "fooy", want: "-[fooy]->"},
		{name: "variable with properties", dir: Out, variable: "fooy", props: fooBar, want: "-[fooy {foo: 1, bar: \"test\"}]->"},
		{name: "variable with type", dir: Out, variable: "fooy", opts: Options{RelationshipType: "new_type"}, want: "-[fooy:`new_type`]->"},
		{name: "variable with rel class", dir: Out, variable: "fooy", opts: Options{RelationshipClass: RelClassOf(myRel)}, want: "-[fooy:`ar_type`]->"},
		{name: "variable creation", dir: Out, variable: "fooy", create: true, want: "-[fooy:`DEFAULT`]->"},
		{name: "variable creation with properties", dir: Out, variable: "fooy", create: true, props: fooBar, want: "-[fooy:`DEFAULT` {foo: 1, bar: \"test\"}]->"},
		{name: "inbound creation with type", dir: In, create: true, opts: Options{RelationshipType: "OWNS"}, want: "<-[:`OWNS`]-"},
		{name: "bidirectional creation is outbound", dir: Both, create: true, want: "-[:`DEFAULT`]->"},
		{name: "bidirectional creation with properties", dir: Both, variable: "r", create: true, props: fooBar, want: "-[r:`DEFAULT` {foo: 1, bar: \"test\"}]->"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNew(t, HasMany, tt.dir, "default", tt.opts)
			got, err := a.PatternFragment(tt.variable, tt.props, tt.create)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := a.PatternFragment(tt.variable, tt.props, tt.create)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

// TestPatternFragment_RelClassByName 测试按名称引用关系类
func TestPatternFragment_RelClassByName(t *testing.T) {
	reg := newFakeRegistry(&fakeRel{name: "MyRel", relType: "ar_type"})
	a := mustNew(t, HasMany, Out, "default", Options{RelationshipClass: RelClassName("MyRel")}, WithResolver(reg))

	got, err := a.PatternFragment("fooy", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "-[fooy:`ar_type`]->", got)

	_, err = a.PatternFragment("fooy", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.lookups)
}

// TestPatternFragment_Errors 测试渲染失败时不输出片段
func TestPatternFragment_Errors(t *testing.T) {
	out := mustNew(t, HasMany, Out, "default", Options{})
	got, err := out.PatternFragment("", cypher.Props("bad", []int{1}), false)
	assert.ErrorIs(t, err, cypher.ErrUnsupportedValue)
	assert.Empty(t, got)

	missing := mustNew(t, HasMany, Out, "default", Options{RelationshipClass: RelClassName("Nope")}, WithResolver(newFakeRegistry()))
	got, err = missing.PatternFragment("r", nil, false)
	assert.ErrorIs(t, err, ErrUnresolvableRelationshipClass)
	assert.Empty(t, got)
}

// TestReversePatternFragment 测试反向片段
func TestReversePatternFragment(t *testing.T) {
	a := mustNew(t, HasMany, Out, "friends", Options{RelationshipType: "KNOWS"})

	got, err := a.ReversePatternFragment("r", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "<-[r:`KNOWS`]-", got)

	b := mustNew(t, HasMany, Both, "friends", Options{})
	got, err = b.ReversePatternFragment("", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "-[]-", got)

	got, err = b.ReversePatternFragment("", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "-[:`FRIENDS`]->", got)
}

// TestTargetClassNames 测试目标类名解析
func TestTargetClassNames(t *testing.T) {
	fizzl := &fakeNode{name: "Fizzl"}
	buzz := &fakeNode{name: "Buzz"}

	tests := []struct {
		name  string
		assoc string
		dir   Direction
		opts  Options
		want  []string
	}{
		{name: "assumed model class", assoc: "burzs", dir: Out, want: []string{"::Burz"}},
		{name: "model class as string", assoc: "default", dir: Out,
			opts: Options{RelationshipType: "foo", ModelClass: ModelClassName("Bizzl")}, want: []string{"::Bizzl"}},
		{name: "model class as class", assoc: "default", dir: Out,
			opts: Options{RelationshipType: "foo", ModelClass: ModelClassOf(fizzl)}, want: []string{"::Fizzl"}},
		{name: "multiple model classes", assoc: "default", dir: Out,
			opts: Options{ModelClass: ModelClassName("A", "::B")}, want: []string{"::A", "::B"}},
		{name: "untyped", assoc: "default", dir: Out,
			opts: Options{ModelClass: Untyped()}, want: nil},
		{name: "rel class any target", assoc: "default", dir: Out,
			opts: Options{RelationshipClass: RelClassOf(&fakeRel{name: "TheRel"})}, want: nil},
		{name: "rel class outbound", assoc: "default", dir: Out,
			opts: Options{RelationshipClass: RelClassOf(&fakeRel{name: "TheRel", to: EndpointOf(fizzl)})}, want: []string{"::Fizzl"}},
		{name: "rel class inbound", assoc: "default", dir: In,
			opts: Options{RelationshipClass: RelClassOf(&fakeRel{name: "TheRel", from: EndpointOf(buzz), to: EndpointOf(fizzl)})}, want: []string{"::Buzz"}},
		{name: "rel class both uses outbound side", assoc: "default", dir: Both,
			opts: Options{RelationshipClass: RelClassOf(&fakeRel{name: "TheRel", from: EndpointOf(buzz), to: EndpointNamed("Fizzl")})}, want: []string{"::Fizzl"}},
		{name: "model class overrides rel class", assoc: "default", dir: Out,
			opts: Options{RelationshipClass: RelClassOf(&fakeRel{name: "TheRel"}), ModelClass: ModelClassName("Bizzl")}, want: []string{"::Bizzl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNew(t, HasMany, tt.dir, tt.assoc, tt.opts)
			got, err := a.TargetClassNames()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestTargetClass 测试目标类解析
func TestTargetClass(t *testing.T) {
	burz := &fakeNode{name: "Burz"}
	reg := newFakeRegistry(burz)

	a := mustNew(t, HasMany, Out, "burzs", Options{}, WithResolver(reg))
	cls, err := a.TargetClass()
	require.NoError(t, err)
	assert.Same(t, burz, cls)

	// 成功结果被缓存
	_, err = a.TargetClass()
	require.NoError(t, err)
	assert.Equal(t, 1, reg.lookups)

	direct := &fakeNode{name: "Direct"}
	b := mustNew(t, HasOne, Out, "thing", Options{ModelClass: ModelClassOf(direct)})
	cls, err = b.TargetClass()
	require.NoError(t, err)
	assert.Same(t, direct, cls)
}

// TestTargetClass_Errors 测试目标类解析失败
func TestTargetClass_Errors(t *testing.T) {
	reg := newFakeRegistry()

	bad := mustNew(t, HasMany, Out, "default", Options{ModelClass: ModelClassName("BadObject")}, WithResolver(reg))
	_, err := bad.TargetClass()
	assert.ErrorIs(t, err, ErrUnresolvableTargetClass)
	assert.True(t, apperrors.IsNotFound(err))

	untyped := mustNew(t, HasMany, Out, "default", Options{ModelClass: Untyped()}, WithResolver(reg))
	_, err = untyped.TargetClass()
	assert.ErrorIs(t, err, ErrUnresolvableTargetClass)

	noResolver := mustNew(t, HasMany, Out, "default", Options{})
	_, err = noResolver.TargetClass()
	assert.ErrorIs(t, err, ErrUnresolvableTargetClass)
}

// TestTargetClass_LateRegistration 测试失败不缓存，类稍后注册后可解析
func TestTargetClass_LateRegistration(t *testing.T) {
	reg := newFakeRegistry()
	a := mustNew(t, HasMany, Out, "burzs", Options{}, WithResolver(reg))

	_, err := a.TargetClass()
	require.Error(t, err)

	burz := &fakeNode{name: "Burz"}
	reg.mu.Lock()
	reg.classes["::Burz"] = burz
	reg.mu.Unlock()

	cls, err := a.TargetClass()
	require.NoError(t, err)
	assert.Same(t, burz, cls)
}

// TestRelationshipType 测试关系类型优先级
func TestRelationshipType(t *testing.T) {
	rel := &fakeRel{name: "Knows", relType: "KNOWS"}

	explicit := mustNew(t, HasMany, Out, "friends", Options{RelationshipType: "FRIEND_OF"})
	relClass := mustNew(t, HasMany, Out, "friends", Options{RelationshipClass: RelClassOf(rel)})
	byName := mustNew(t, HasMany, Out, "best_friends", Options{})

	for a, want := range map[*Association]string{explicit: "FRIEND_OF", relClass: "KNOWS", byName: "BEST_FRIENDS"} {
		got, err := a.RelationshipType()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// TestOriginType 测试镜像关联类型
func TestOriginType(t *testing.T) {
	person := &fakeNode{name: "Person", assocs: map[string]*Association{}}
	person.assocs["cats"] = mustNew(t, HasMany, Out, "cats", Options{RelationshipType: "MyRel"})
	reg := newFakeRegistry(person)

	start := mustNew(t, HasMany, In, "owner", Options{Origin: "cats", ModelClass: ModelClassName("Person")}, WithResolver(reg))

	got, err := start.originType(nil)
	require.NoError(t, err)
	assert.Equal(t, "MyRel", got)

	relType, err := start.RelationshipType()
	require.NoError(t, err)
	assert.Equal(t, "MyRel", relType)

	frag, err := start.PatternFragment("r", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "<-[r:`MyRel`]-", frag)
}

// TestOriginType_Errors 测试镜像关联缺失或不可用
func TestOriginType_Errors(t *testing.T) {
	person := &fakeNode{name: "Person", assocs: map[string]*Association{}}
	person.assocs["cats"] = mustNew(t, HasMany, Out, "cats", Options{})
	person.assocs["pals"] = mustNew(t, HasMany, Both, "pals", Options{RelationshipType: "PAL"})
	reg := newFakeRegistry(person, &fakeRel{name: "Plain"})

	tests := []struct {
		name string
		dir  Direction
		opts Options
	}{
		{name: "missing association", dir: In, opts: Options{Origin: "dogs", ModelClass: ModelClassName("Person")}},
		{name: "same direction", dir: Out, opts: Options{Origin: "cats", ModelClass: ModelClassName("Person")}},
		{name: "both mirrors both", dir: Both, opts: Options{Origin: "pals", ModelClass: ModelClassName("Person")}},
		{name: "target without associations", dir: In, opts: Options{Origin: "cats", ModelClass: ModelClassName("Plain")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNew(t, HasMany, tt.dir, "owner", tt.opts, WithResolver(reg))
			_, err := a.RelationshipType()
			assert.ErrorIs(t, err, ErrUnresolvableOrigin)
		})
	}
}

// TestOriginType_Chain 测试镜像关联自身由 origin 声明时沿链解析
func TestOriginType_Chain(t *testing.T) {
	c := &fakeNode{name: "C", assocs: map[string]*Association{}}
	b := &fakeNode{name: "B", assocs: map[string]*Association{}}
	a := &fakeNode{name: "A", assocs: map[string]*Association{}}
	reg := newFakeRegistry(a, b, c)

	c.assocs["y"] = mustNew(t, HasMany, Out, "y", Options{RelationshipType: "REAL"}, WithResolver(reg))
	b.assocs["x"] = mustNew(t, HasMany, In, "x", Options{Origin: "y", ModelClass: ModelClassName("C")}, WithResolver(reg))
	a.assocs["z"] = mustNew(t, HasMany, Out, "z", Options{Origin: "x", ModelClass: ModelClassName("B")}, WithResolver(reg))

	got, err := a.assocs["z"].RelationshipType()
	require.NoError(t, err)
	assert.Equal(t, "REAL", got)

	mid, err := b.assocs["x"].RelationshipType()
	require.NoError(t, err)
	assert.Equal(t, "REAL", mid)

	frag, err := a.assocs["z"].PatternFragment("r", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "-[r:`REAL`]->", frag)
}

// TestOriginType_Cycle 测试互为镜像的关联报告循环且不缓存失败
func TestOriginType_Cycle(t *testing.T) {
	a := &fakeNode{name: "A", assocs: map[string]*Association{}}
	b := &fakeNode{name: "B", assocs: map[string]*Association{}}
	reg := newFakeRegistry(a, b)

	a.assocs["z"] = mustNew(t, HasMany, In, "z", Options{Origin: "x", ModelClass: ModelClassName("B")}, WithResolver(reg))
	b.assocs["x"] = mustNew(t, HasMany, Out, "x", Options{Origin: "z", ModelClass: ModelClassName("A")}, WithResolver(reg))

	for _, assoc := range []*Association{a.assocs["z"], b.assocs["x"]} {
		_, err := assoc.RelationshipType()
		require.ErrorIs(t, err, ErrUnresolvableOrigin)
		assert.Contains(t, err.Error(), "cycle")
		assert.False(t, assoc.relationshipType.loaded())
	}
}

// TestRelationshipClass 测试关系类解析
func TestRelationshipClass(t *testing.T) {
	none := mustNew(t, HasMany, Out, "default", Options{})
	rc, err := none.RelationshipClass()
	require.NoError(t, err)
	assert.Nil(t, rc)

	rel := &fakeRel{name: "TheRel", relType: "THE_REL"}
	byRef := mustNew(t, HasMany, Out, "default", Options{RelationshipClass: RelClassOf(rel)})
	rc, err = byRef.RelationshipClass()
	require.NoError(t, err)
	assert.Same(t, rel, rc)

	reg := newFakeRegistry(&fakeNode{name: "NotARel"})
	wrong := mustNew(t, HasMany, Out, "default", Options{RelationshipClass: RelClassName("NotARel")}, WithResolver(reg))
	_, err = wrong.RelationshipClass()
	assert.ErrorIs(t, err, ErrUnresolvableRelationshipClass)
}

// TestIsUnique 测试唯一标记
func TestIsUnique(t *testing.T) {
	assert.True(t, mustNew(t, HasMany, Out, "default", Options{RelationshipType: "foo", Unique: true}).IsUnique())
	assert.False(t, mustNew(t, HasMany, Out, "default", Options{RelationshipType: "foo", Unique: false}).IsUnique())
	assert.False(t, mustNew(t, HasMany, Out, "default", Options{}).IsUnique())
}

// TestAccessors 测试只读访问器
func TestAccessors(t *testing.T) {
	a := mustNew(t, HasOne, In, "owner", Options{RelationshipType: "OWNS"})
	assert.Equal(t, HasOne, a.Kind())
	assert.Equal(t, In, a.Direction())
	assert.Equal(t, "owner", a.Name())
	assert.Equal(t, "OWNS", a.Options().RelationshipType)
	assert.True(t, a.HasExplicitType())
	assert.Equal(t, "has_one owner (in, explicit_type)", a.String())

	poly, err := mustNew(t, HasMany, Out, "things", Options{ModelClass: Untyped()}).IsPolymorphic()
	require.NoError(t, err)
	assert.True(t, poly)
}

// TestParse 测试名称解析
func TestParse(t *testing.T) {
	k, err := ParseKind("has_many")
	require.NoError(t, err)
	assert.True(t, k.IsCollection())
	_, err = ParseKind("belongs_to")
	assert.ErrorIs(t, err, ErrInvalidAssociationKind)

	d, err := ParseDirection("in")
	require.NoError(t, err)
	assert.Equal(t, Out, d.Reverse())
	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "[out in both]")
}

// TestEndpoint 测试端点变体
func TestEndpoint(t *testing.T) {
	assert.True(t, AnyEndpoint().IsAny())
	assert.True(t, Endpoint{}.IsAny())
	assert.True(t, EndpointNamed("").IsAny())
	assert.Equal(t, "any", AnyEndpoint().String())

	name, ok := EndpointNamed("Person").ClassName()
	assert.True(t, ok)
	assert.Equal(t, "::Person", name)
	_, ok = AnyEndpoint().ClassName()
	assert.False(t, ok)
}

// TestConcurrentResolution 测试并发首次访问
func TestConcurrentResolution(t *testing.T) {
	burz := &fakeNode{name: "Burz"}
	reg := newFakeRegistry(burz, &fakeRel{name: "R", relType: "R_TYPE", to: EndpointOf(burz)})
	a := mustNew(t, HasMany, Out, "burzs", Options{RelationshipClass: RelClassName("R")}, WithResolver(reg))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cls, err := a.TargetClass()
			assert.NoError(t, err)
			assert.Same(t, burz, cls)
			frag, err := a.PatternFragment("r", nil, false)
			assert.NoError(t, err)
			assert.Equal(t, "-[r:`R_TYPE`]->", frag)
		}()
	}
	wg.Wait()
}
