package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwModule represents the 'module' keyword.
	KwModule // module
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwType represents the 'type' keyword.
	KwType // type
	// KwImpl represents the 'impl' keyword.
	KwImpl // impl
	// KwUse represents the 'use' keyword.
	KwUse // use
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwMatch represents the 'match' keyword.
	KwMatch // match
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwLoop represents the 'loop' keyword.
	KwLoop // loop
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwSpawn represents the 'spawn' keyword.
	KwSpawn // spawn
	// KwAwait represents the 'await' keyword.
	KwAwait // await
	// KwChan represents the 'chan' keyword.
	KwChan // chan
	// KwUsing represents the 'using' keyword.
	KwUsing // using
	// KwAs represents the 'as' keyword.
	KwAs // as

	// IntLit represents an integer literal token.
	IntLit
	// FloatLit represents a float literal token.
	FloatLit
	// StringLit represents a string literal token.
	StringLit
	// BoolLit represents the 'true'/'false' literal token.
	BoolLit

	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// LBracket represents '['.
	LBracket
	// RBracket represents ']'.
	RBracket
	// Comma represents ','.
	Comma
	// Colon represents ':'.
	Colon
	// ColonColon represents '::'.
	ColonColon
	// Semicolon represents ';'.
	Semicolon
	// Dot represents '.'.
	Dot
	// Arrow represents '->'.
	Arrow
	// FatArrow represents '=>'.
	FatArrow
	// Assign represents '='.
	Assign
	// Plus represents '+'.
	Plus
	// Minus represents '-'.
	Minus
	// Star represents '*'.
	Star
	// Slash represents '/'.
	Slash
	// Percent represents '%'.
	Percent
	// Amp represents '&'.
	Amp
	// Pipe represents '|'.
	Pipe
	// Question represents '?'.
	Question
	// Bang represents '!'.
	Bang
	// EqEq represents '=='.
	EqEq
	// BangEq represents '!='.
	BangEq
	// Lt represents '<'.
	Lt
	// LtEq represents '<='.
	LtEq
	// Gt represents '>'.
	Gt
	// GtEq represents '>='.
	GtEq
	// AndAnd represents '&&'.
	AndAnd
	// OrOr represents '||'.
	OrOr
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Ident:      "identifier",
	KwModule:   "module",
	KwPub:      "pub",
	KwFn:       "fn",
	KwType:     "type",
	KwImpl:     "impl",
	KwUse:      "use",
	KwLet:      "let",
	KwMut:      "mut",
	KwReturn:   "return",
	KwIf:       "if",
	KwElse:     "else",
	KwMatch:    "match",
	KwFor:      "for",
	KwIn:       "in",
	KwLoop:     "loop",
	KwWhile:    "while",
	KwBreak:    "break",
	KwContinue: "continue",
	KwSpawn:    "spawn",
	KwAwait:    "await",
	KwChan:     "chan",
	KwUsing:    "using",
	KwAs:       "as",
	IntLit:     "int literal",
	FloatLit:   "float literal",
	StringLit:  "string literal",
	BoolLit:    "bool literal",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
	Comma:      "','",
	Colon:      "':'",
	ColonColon: "'::'",
	Semicolon:  "';'",
	Dot:        "'.'",
	Arrow:      "'->'",
	FatArrow:   "'=>'",
	Assign:     "'='",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Amp:        "'&'",
	Pipe:       "'|'",
	Question:   "'?'",
	Bang:       "'!'",
	EqEq:       "'=='",
	BangEq:     "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}
