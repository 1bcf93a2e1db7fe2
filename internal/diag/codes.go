package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadNumber          Code = 1004

	// Syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectModuleHeader Code = 2003
	SynUnexpectedItem     Code = 2004
	SynExpectType         Code = 2005
	SynExpectExpression   Code = 2006
	SynBadPattern         Code = 2007
	SynUnclosedDelimiter  Code = 2008

	// Resolution
	ResInfo              Code = 3000
	ResDuplicateSymbol   Code = 3001
	ResUnresolvedPath    Code = 3002
	ResDuplicateVariant  Code = 3003
	ResUnknownImport     Code = 3004
	ResImportNotExported Code = 3005

	// Type/effect checking
	SemaInfo                Code = 4000
	SemaNonExhaustiveMatch  Code = 4001
	SemaMissingCapability   Code = 4002
	SemaDuplicateCapability Code = 4003
	SemaUnboundIdentifier   Code = 4004
	SemaArityMismatch       Code = 4005
	SemaTypeMismatch        Code = 4006
	SemaUnboundEffect       Code = 4007

	// Lowering / IR
	LowerInfo        Code = 5000
	LowerUnsupported Code = 5001
)

func (c Code) String() string {
	return fmt.Sprintf("MICA%04d", uint16(c))
}
