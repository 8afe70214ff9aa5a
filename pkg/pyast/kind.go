package pyast

// Kind classifies the type of an AST node.
type Kind uint16

// Node kinds. Statements and clause nodes each begin an independently
// formattable source line; expression kinds never do.
const (
	KindModule Kind = iota

	// Simple statements.
	KindAssign
	KindAugAssign
	KindAnnAssign
	KindExprStmt
	KindReturn
	KindDelete
	KindPass
	KindBreak
	KindContinue
	KindImport
	KindImportFrom
	KindRaise
	KindAssert
	KindGlobal
	KindNonlocal

	// Compound statements.
	KindIf
	KindWhile
	KindFor
	KindWith
	KindFunctionDef
	KindClassDef
	KindTry
	KindMatch

	// Clause nodes: part of a compound statement but formatted as their
	// own logical line.
	KindElifElseClause
	KindExceptHandler
	KindMatchCase
	KindDecorator

	// Expression-level nodes. The formatter never selects these as a
	// formatting target; they exist so statement headers know the spans
	// of their operands.
	KindExpr
)

var kindNames = [...]string{
	KindModule:         "Module",
	KindAssign:         "Assign",
	KindAugAssign:      "AugAssign",
	KindAnnAssign:      "AnnAssign",
	KindExprStmt:       "ExprStmt",
	KindReturn:         "Return",
	KindDelete:         "Delete",
	KindPass:           "Pass",
	KindBreak:          "Break",
	KindContinue:       "Continue",
	KindImport:         "Import",
	KindImportFrom:     "ImportFrom",
	KindRaise:          "Raise",
	KindAssert:         "Assert",
	KindGlobal:         "Global",
	KindNonlocal:       "Nonlocal",
	KindIf:             "If",
	KindWhile:          "While",
	KindFor:            "For",
	KindWith:           "With",
	KindFunctionDef:    "FunctionDef",
	KindClassDef:       "ClassDef",
	KindTry:            "Try",
	KindMatch:          "Match",
	KindElifElseClause: "ElifElseClause",
	KindExceptHandler:  "ExceptHandler",
	KindMatchCase:      "MatchCase",
	KindDecorator:      "Decorator",
	KindExpr:           "Expr",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsStatement returns true for statement kinds (simple or compound).
func (k Kind) IsStatement() bool {
	return k >= KindAssign && k <= KindMatch
}

// IsSimpleStatement returns true for statements without an indented suite.
func (k Kind) IsSimpleStatement() bool {
	return k >= KindAssign && k <= KindNonlocal
}

// IsCompoundStatement returns true for statements carrying indented suites.
func (k Kind) IsCompoundStatement() bool {
	return k >= KindIf && k <= KindMatch
}

// IsLogicalLine reports whether nodes of this kind begin a source line that
// the renderer treats as an independent formatting unit.
func (k Kind) IsLogicalLine() bool {
	return k.IsStatement() ||
		k == KindDecorator ||
		k == KindExceptHandler ||
		k == KindElifElseClause ||
		k == KindMatchCase
}
