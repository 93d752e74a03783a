// Package codegen models the TypeScript program tscli emits and prints it
// deterministically.
package codegen

// Expr is an expression node.
type Expr interface {
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	stmtNode()
}

// Program is a sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

type (
	// Ident is an identifier.
	Ident struct {
		Name string
	}

	// String is a string literal. Value is unescaped.
	String struct {
		Value string
	}

	// Number is a numeric literal kept as written.
	Number struct {
		Raw string
	}

	// Bool is true or false.
	Bool struct {
		Value bool
	}

	// Keyword is null or undefined.
	Keyword struct {
		Name string
	}

	// Array is an array literal.
	Array struct {
		Elems []Expr
	}

	// Object is an object literal. Properties keep insertion order.
	Object struct {
		Props []Prop
	}

	// Member is X.Name.
	Member struct {
		X    Expr
		Name string
	}

	// Call is Fun(Args...).
	Call struct {
		Fun  Expr
		Args []Expr
	}

	// New is new Fun(Args...).
	New struct {
		Fun  Expr
		Args []Expr
	}

	// Arrow is an arrow function with a block body.
	Arrow struct {
		Async  bool
		Params []string
		Body   []Stmt
	}

	// Await is await X.
	Await struct {
		X Expr
	}

	// Binary is L Op R.
	Binary struct {
		Op   string
		L, R Expr
	}
)

// Prop is a key: value pair.
type Prop struct {
	Key   string
	Value Expr
}

func (*Ident) exprNode()   {}
func (*String) exprNode()  {}
func (*Number) exprNode()  {}
func (*Bool) exprNode()    {}
func (*Keyword) exprNode() {}
func (*Array) exprNode()   {}
func (*Object) exprNode()  {}
func (*Member) exprNode()  {}
func (*Call) exprNode()    {}
func (*New) exprNode()     {}
func (*Arrow) exprNode()   {}
func (*Await) exprNode()   {}
func (*Binary) exprNode()  {}

type (
	// Import is an import declaration. At most one of Namespace and
	// Default+Named is used.
	Import struct {
		Default   string
		Namespace string
		Named     []string
		Module    string
	}

	// Func is a function declaration.
	Func struct {
		Export     bool
		Default    bool
		Async      bool
		Name       string
		Params     []string
		ReturnType string
		Body       []Stmt
	}

	// ExprStmt is an expression statement.
	ExprStmt struct {
		X Expr
	}

	// Return is a return statement.
	Return struct {
		X Expr
	}

	// Throw is a throw statement.
	Throw struct {
		X Expr
	}

	// If is an if statement without else.
	If struct {
		Cond Expr
		Then Stmt
	}

	// Destructure is const { Names..., ...Rest } = Init.
	Destructure struct {
		Names []string
		Rest  string
		Init  Expr
	}

	// Verbatim is source text emitted unchanged, surrounded by blank lines.
	Verbatim struct {
		Text string
	}
)

func (*Import) stmtNode()      {}
func (*Func) stmtNode()        {}
func (*ExprStmt) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Throw) stmtNode()       {}
func (*If) stmtNode()          {}
func (*Destructure) stmtNode() {}
func (*Verbatim) stmtNode()    {}

// Id returns an identifier node.
func Id(name string) *Ident { return &Ident{Name: name} }

// Str returns a string literal node.
func Str(value string) *String { return &String{Value: value} }

// Sel builds a member access chain: Sel(x, "a", "b") is x.a.b.
func Sel(x Expr, names ...string) Expr {
	for _, n := range names {
		x = &Member{X: x, Name: n}
	}
	return x
}

// Invoke calls the method name on x.
func Invoke(x Expr, name string, args ...Expr) *Call {
	return &Call{Fun: &Member{X: x, Name: name}, Args: args}
}
