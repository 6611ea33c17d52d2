package ast

// Every flow may be prefixed with `unwrap`. Else branches are optional.

type IfFlow struct {
	Pos
	Unwrap bool
	Cond   Handle[Expr]
	Then   Handle[Expr]
	Else   Handle[Expr]
}

func (*IfFlow) Kind() NodeKind { return KindIfFlow }
func (n *IfFlow) Fields() []Field {
	return []Field{
		scalar("unwrap", n.Unwrap),
		child("cond", n.Cond),
		child("then", n.Then),
		child("else", n.Else),
	}
}
func (n *IfFlow) release() {
	n.Cond.Drop()
	n.Then.Drop()
	n.Else.Drop()
}

type ForFlow struct {
	Pos
	Unwrap bool
	Var    string
	Iter   Handle[Expr]
	Body   Handle[Expr]
	Else   Handle[Expr]
}

func (*ForFlow) Kind() NodeKind { return KindForFlow }
func (n *ForFlow) Fields() []Field {
	return []Field{
		scalar("unwrap", n.Unwrap),
		scalar("var", n.Var),
		child("iter", n.Iter),
		child("body", n.Body),
		child("else", n.Else),
	}
}
func (n *ForFlow) release() {
	n.Iter.Drop()
	n.Body.Drop()
	n.Else.Drop()
}

type WhileFlow struct {
	Pos
	Unwrap bool
	Cond   Handle[Expr]
	Body   Handle[Expr]
	Else   Handle[Expr]
}

func (*WhileFlow) Kind() NodeKind { return KindWhileFlow }
func (n *WhileFlow) Fields() []Field {
	return []Field{
		scalar("unwrap", n.Unwrap),
		child("cond", n.Cond),
		child("body", n.Body),
		child("else", n.Else),
	}
}
func (n *WhileFlow) release() {
	n.Cond.Drop()
	n.Body.Drop()
	n.Else.Drop()
}

type LoopFlow struct {
	Pos
	Unwrap bool
	Body   Handle[Expr]
}

func (*LoopFlow) Kind() NodeKind { return KindLoopFlow }
func (n *LoopFlow) Fields() []Field {
	return []Field{scalar("unwrap", n.Unwrap), child("body", n.Body)}
}
func (n *LoopFlow) release() { n.Body.Drop() }

func (*IfFlow) flowNode()    {}
func (*ForFlow) flowNode()   {}
func (*WhileFlow) flowNode() {}
func (*LoopFlow) flowNode()  {}
