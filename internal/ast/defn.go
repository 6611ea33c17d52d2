package ast

type VarDef struct {
	Pos
	Time  XTime
	Name  string
	Type  Handle[Expr] // optional
	Value Handle[Expr] // optional
}

func (*VarDef) Kind() NodeKind { return KindVarDef }
func (n *VarDef) Fields() []Field {
	return []Field{
		scalar("xtime", n.Time),
		scalar("name", n.Name),
		child("type", n.Type),
		child("value", n.Value),
	}
}
func (n *VarDef) release() {
	n.Type.Drop()
	n.Value.Drop()
}

// FuncDef is a named or anonymous function. Body is either the expression
// after `=>` or a block.
type FuncDef struct {
	Pos
	Time   XTime
	Name   string // "" for lambdas
	Args   Handle[*ArgsSpec]
	Result Handle[Expr] // optional
	Body   Handle[Expr]
}

func (*FuncDef) Kind() NodeKind { return KindFuncDef }
func (n *FuncDef) Fields() []Field {
	return []Field{
		scalar("xtime", n.Time),
		scalar("name", n.Name),
		child("args", n.Args),
		child("result", n.Result),
		child("body", n.Body),
	}
}
func (n *FuncDef) release() {
	n.Args.Drop()
	n.Result.Drop()
	n.Body.Drop()
}

// StructDef covers both `struct` and `class`.
type StructDef struct {
	Pos
	Time    XTime
	IsClass bool
	Name    string
	Args    Handle[*ArgsSpec]
}

func (*StructDef) Kind() NodeKind { return KindStructDef }
func (n *StructDef) Fields() []Field {
	return []Field{
		scalar("xtime", n.Time),
		scalar("is_class", n.IsClass),
		scalar("name", n.Name),
		child("args", n.Args),
	}
}
func (n *StructDef) release() { n.Args.Drop() }

// ImplDef is `impl Target {...}` or `impl Trait for Target {...}`.
type ImplDef struct {
	Pos
	Time   XTime
	Trait  Handle[Expr] // optional
	Target Handle[Expr]
	Body   Seq[Stmt]
}

func (*ImplDef) Kind() NodeKind { return KindImplDef }
func (n *ImplDef) Fields() []Field {
	return []Field{
		scalar("xtime", n.Time),
		child("trait", n.Trait),
		child("target", n.Target),
		seq("body", n.Body),
	}
}
func (n *ImplDef) release() {
	n.Trait.Drop()
	n.Target.Drop()
	n.Body.Drop()
}

// NamespaceDef is `namespace [cartridge ::] a::b::c`.
type NamespaceDef struct {
	Pos
	Time      XTime
	Cartridge bool
	Path      []string
}

func (*NamespaceDef) Kind() NodeKind { return KindNamespaceDef }
func (n *NamespaceDef) Fields() []Field {
	return []Field{
		scalar("xtime", n.Time),
		scalar("cartridge", n.Cartridge),
		scalar("path", n.Path),
	}
}
func (*NamespaceDef) release() {}

// ArgsSpec is a parameter list. HasSelf is set when the list starts with the
// soft keyword self.
type ArgsSpec struct {
	Pos
	HasSelf bool
	Args    Seq[*ArgSpec]
}

func (*ArgsSpec) Kind() NodeKind { return KindArgsSpec }
func (n *ArgsSpec) Fields() []Field {
	return []Field{scalar("has_self", n.HasSelf), seq("args", n.Args)}
}
func (n *ArgsSpec) release() { n.Args.Drop() }

type ArgSpec struct {
	Pos
	Name    string
	Type    Handle[Expr]
	Default Handle[Expr] // optional
}

func (*ArgSpec) Kind() NodeKind { return KindArgSpec }
func (n *ArgSpec) Fields() []Field {
	return []Field{scalar("name", n.Name), child("type", n.Type), child("default", n.Default)}
}
func (n *ArgSpec) release() {
	n.Type.Drop()
	n.Default.Drop()
}

func (*VarDef) defnNode()       {}
func (*FuncDef) defnNode()      {}
func (*StructDef) defnNode()    {}
func (*ImplDef) defnNode()      {}
func (*NamespaceDef) defnNode() {}
