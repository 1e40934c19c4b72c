package token

import "fmt"

type Kind uint16

const (
	KindUnknown Kind = iota
	KindInvalid
	KindWhitespace
	KindNewline
	KindIndent
	KindOutdent
	KindComment
	KindIdentifier
	KindNumber
	KindString
	KindChar

	// Keywords.
	KindLet
	KindFn
	KindClass
	KindWhile
	KindNoBreak
	KindFor
	KindIf
	KindElif
	KindElse
	KindBreak
	KindContinue
	KindReturn
	KindPass
	KindMacro
	KindAssert
	KindTrue
	KindFalse
	KindNil

	// Operators.
	KindIncrement
	KindDecrement
	KindTilde
	KindStar
	KindPower
	KindSlash
	KindFloorDiv
	KindPercent
	KindPlus
	KindMinus
	KindShiftLeft
	KindShiftRight
	KindLess
	KindLessEqual
	KindGreater
	KindGreaterEqual
	KindEqual
	KindNotEqual
	KindAmpersand
	KindCaret
	KindPipe
	KindRightPipe
	KindAnd
	KindOr
	KindNot
	KindIs
	KindIsNot
	KindIn
	KindNotIn
	KindAs

	// Symbols.
	KindAssign
	KindPlusAssign
	KindMinusAssign
	KindPowerAssign
	KindStarAssign
	KindSlashAssign
	KindFloorDivAssign
	KindPercentAssign
	KindNilCoalesceAssign
	KindShiftLeftAssign
	KindShiftRightAssign
	KindAmpersandAssign
	KindPipeAssign
	KindCaretAssign
	KindDot
	KindLeftPipe
	KindFatArrow
	KindArrow
	KindAt
	KindQuestion
	KindDoubleColon
	KindParenOpen
	KindParenClose
	KindBracketOpen
	KindBracketClose
	KindBraceOpen
	KindBraceClose
	KindComma
	KindColon
	KindSemicolon

	KindEOF
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindInvalid:           "invalid",
	KindWhitespace:        "whitespace",
	KindNewline:           "newline",
	KindIndent:            "indent",
	KindOutdent:           "outdent",
	KindComment:           "comment",
	KindIdentifier:        "identifier",
	KindNumber:            "number",
	KindString:            "string",
	KindChar:              "char",
	KindLet:               "let",
	KindFn:                "fn",
	KindClass:             "class",
	KindWhile:             "while",
	KindNoBreak:           "nobreak",
	KindFor:               "for",
	KindIf:                "if",
	KindElif:              "elif",
	KindElse:              "else",
	KindBreak:             "break",
	KindContinue:          "continue",
	KindReturn:            "return",
	KindPass:              "pass",
	KindMacro:             "macro",
	KindAssert:            "assert",
	KindTrue:              "true",
	KindFalse:             "false",
	KindNil:               "nil",
	KindIncrement:         "'++'",
	KindDecrement:         "'--'",
	KindTilde:             "'~'",
	KindStar:              "'*'",
	KindPower:             "'**'",
	KindSlash:             "'/'",
	KindFloorDiv:          "'//'",
	KindPercent:           "'%'",
	KindPlus:              "'+'",
	KindMinus:             "'-'",
	KindShiftLeft:         "'<<'",
	KindShiftRight:        "'>>'",
	KindLess:              "'<'",
	KindLessEqual:         "'<='",
	KindGreater:           "'>'",
	KindGreaterEqual:      "'>='",
	KindEqual:             "'=='",
	KindNotEqual:          "'!='",
	KindAmpersand:         "'&'",
	KindCaret:             "'^'",
	KindPipe:              "'|'",
	KindRightPipe:         "'|>'",
	KindAnd:               "and",
	KindOr:                "or",
	KindNot:               "not",
	KindIs:                "is",
	KindIsNot:             "is-not",
	KindIn:                "in",
	KindNotIn:             "not-in",
	KindAs:                "as",
	KindAssign:            "'='",
	KindPlusAssign:        "'+='",
	KindMinusAssign:       "'-='",
	KindPowerAssign:       "'**='",
	KindStarAssign:        "'*='",
	KindSlashAssign:       "'/='",
	KindFloorDivAssign:    "'//='",
	KindPercentAssign:     "'%='",
	KindNilCoalesceAssign: "'?='",
	KindShiftLeftAssign:   "'<<='",
	KindShiftRightAssign:  "'>>='",
	KindAmpersandAssign:   "'&='",
	KindPipeAssign:        "'|='",
	KindCaretAssign:       "'^='",
	KindDot:               "'.'",
	KindLeftPipe:          "'<|'",
	KindFatArrow:          "'=>'",
	KindArrow:             "'->'",
	KindAt:                "'@'",
	KindQuestion:          "'?'",
	KindDoubleColon:       "'::'",
	KindParenOpen:         "'('",
	KindParenClose:        "')'",
	KindBracketOpen:       "'['",
	KindBracketClose:      "']'",
	KindBraceOpen:         "'{'",
	KindBraceClose:        "'}'",
	KindComma:             "','",
	KindColon:             "':'",
	KindSemicolon:         "';'",
	KindEOF:               "end of stream",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// Keywords maps reserved words to their kinds. Operator words such as and or
// not are owned by the operator table instead.
var Keywords = map[string]Kind{
	"let":      KindLet,
	"fn":       KindFn,
	"class":    KindClass,
	"while":    KindWhile,
	"nobreak":  KindNoBreak,
	"for":      KindFor,
	"if":       KindIf,
	"elif":     KindElif,
	"else":     KindElse,
	"break":    KindBreak,
	"continue": KindContinue,
	"return":   KindReturn,
	"pass":     KindPass,
	"macro":    KindMacro,
	"assert":   KindAssert,
	"true":     KindTrue,
	"false":    KindFalse,
	"nil":      KindNil,
}

func (k Kind) IsKeyword() bool {
	return k >= KindLet && k <= KindNil
}

// IsTrivia reports kinds that carry no syntax.
func (k Kind) IsTrivia() bool {
	return k == KindWhitespace || k == KindComment
}

// IsLiteral reports kinds that form constant expressions.
func (k Kind) IsLiteral() bool {
	switch k {
	case KindNumber, KindString, KindChar, KindTrue, KindFalse, KindNil:
		return true
	}
	return false
}
