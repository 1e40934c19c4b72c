package exc

const (
	CodeUnknownFatal                   = "AX0000"
	CodeFileNotFound                   = "AX0001"
	CodeUnsupportedFileSystemOperation = "AX0002"
	CodePermissionDenied               = "AX0003"
	CodeUnsupportedFileFormat          = "AX0004"
	CodeUnexpectedEOF                  = "AX0005"
)

// Lexical diagnostics.
const (
	CodeInvalidCharacter        = "AX0100"
	CodeMismatchedParenthesis   = "AX0101"
	CodeMismatchedBracket       = "AX0102"
	CodeMismatchedBrace         = "AX0103"
	CodeUnterminatedString      = "AX0104"
	CodeUnterminatedComment     = "AX0105"
	CodeUnterminatedChar        = "AX0106"
	CodeInvalidIndentation      = "AX0107"
	CodeInconsistentIndentation = "AX0108"
)

// Syntax diagnostics.
const (
	CodeUnexpectedToken          = "AX0200"
	CodeExpectedToken            = "AX0201"
	CodeInvalidIndexerExpression = "AX0202"
	CodeInvalidOperator          = "AX0203"
	CodeInvalidMacroPattern      = "AX0204"
)

const (
	CodeInvalidLiteral = "AX0300"
)

const (
	CodeInternal  = "AX0900"
	CodeCancelled = "AX0901"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{
		CodeInvalidCharacter:         true,
		CodeMismatchedParenthesis:    true,
		CodeMismatchedBracket:        true,
		CodeMismatchedBrace:          true,
		CodeUnterminatedString:       true,
		CodeUnterminatedComment:      true,
		CodeUnterminatedChar:         true,
		CodeInvalidIndentation:       true,
		CodeInconsistentIndentation:  true,
		CodeUnexpectedToken:          true,
		CodeExpectedToken:            true,
		CodeInvalidIndexerExpression: true,
		CodeInvalidOperator:          true,
		CodeInvalidMacroPattern:      true,
		CodeInvalidLiteral:           true,
	}
)

// IsFatal reports whether a code stops processing of the unit that raised it
// when no custom non-fatal set is installed.
func IsFatal(code string) bool {
	return !defaultNonFatal[code]
}
