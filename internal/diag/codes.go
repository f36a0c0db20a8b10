package diag

// The registry below names every diagnostic code a pipeline stage may
// raise; each stage's own error type documents which of these it produces
// (internal/lexer.Error, internal/parser.SyntaxError, internal/symbols,
// internal/dag, internal/exec carry their own richer fields and convert to
// a Diagnostic only when surfaced to a report or a CLI user).
const (
	CodeLexInvalidCharacter  Code = "LEX001"
	CodeLexUnterminatedStr   Code = "LEX002"
	CodeLexStringTooLarge    Code = "LEX003"
	CodeLexInvalidNumber     Code = "LEX004"
	CodeLexIdentifierTooLong Code = "LEX005"
	CodeLexCommentTooLong    Code = "LEX006"
	CodeLexTokenLimit        Code = "LEX007"
	CodeLexStringNesting     Code = "LEX008"

	CodeParEmptyStream      Code = "PAR001"
	CodeParMissingEOF       Code = "PAR002"
	CodeParUnexpectedToken  Code = "PAR003"
	CodeParUnmatchedDelim   Code = "PAR004"
	CodeParGrammarViolation Code = "PAR005"
	CodeParMaxRecursion     Code = "PAR006"

	CodeSymDuplicateName   Code = "SYM001"
	CodeSymUndefinedRef    Code = "SYM002"
	CodeSymTypeMismatch    Code = "SYM003"
	CodeSymInvalidScope    Code = "SYM004"
	CodeSymBoundsViolation Code = "SYM005"

	CodeDagCircularDependency Code = "DAG001"
	CodeDagUnresolvedRef      Code = "DAG002"

	CodeExeTimeout        Code = "EXE001"
	CodeExeCollectorError Code = "EXE002"
	CodeExeComparisonType Code = "EXE003"
)
