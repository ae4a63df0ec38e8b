// Package errcode provides the structured diagnostic type shared by every
// compiler stage (lexer, parser, resolver, type checker) plus the stable
// error-code taxonomy from spec.md §7. Each phase accumulates a batch of
// *Diagnostic and surfaces it together once the stage can make no further
// progress, per the "Error batching" policy in spec.md §5.
package errcode

// Code is a stable, stage-prefixed identifier for a diagnostic kind, used
// the way the teacher's internal/errors package prefixes by phase
// (PAR/MOD/LDR/...): LEX (lexer), PAR (parser), RES (resolver), TYC (type
// checker), MON (monomorphizer).
type Code string

const (
	// Lexer kinds (spec §7)
	LexUnexpectedEOF            Code = "LEX001"
	LexUnsupportedCharacter      Code = "LEX002"
	LexInvalidEscape             Code = "LEX003"
	LexUnterminatedStringLiteral Code = "LEX004"
	LexUnterminatedBlockComment  Code = "LEX005"
	LexUnknownOperator           Code = "LEX006"

	// Parser kinds
	ParUnexpectedToken Code = "PAR001"
	ParCustom          Code = "PAR002"

	// Resolver kinds
	ResModuleConflict                     Code = "RES001"
	ResInternalModuleConflicts            Code = "RES002"
	ResImportedModuleNotFound             Code = "RES003"
	ResImportNoMatch                      Code = "RES004"
	ResExportNoMatch                      Code = "RES005"
	ResUnusedHiddenItem                   Code = "RES006"
	ResAmbiguousName                      Code = "RES007"
	ResUnknownTypeName                    Code = "RES008"
	ResUnknownFunction                    Code = "RES009"
	ResUnknownFieldName                   Code = "RES010"
	ResNotRecordType                      Code = "RES011"
	ResNotAClassName                      Code = "RES012"
	ResArgumentConflict                   Code = "RES013"
	ResLambdaArgumentConflict             Code = "RES014"
	ResTypeArgumentConflict               Code = "RES015"
	ResUnusedTypeArgument                 Code = "RES016"
	ResIncorrectTypeArgumentCount         Code = "RES017"
	ResNameNotType                        Code = "RES018"
	ResNotIrrefutablePattern              Code = "RES019"
	ResPatternBindConflict                Code = "RES020"
	ResPatternBindNotPresent              Code = "RES021"
	ResNoSuchField                        Code = "RES022"
	ResMissingFields                      Code = "RES023"
	ResFieldsInitializedMultipleTimes     Code = "RES024"
	ResNoRecordFoundWithFields            Code = "RES025"
	ResFunctionTypeNameMismatch           Code = "RES026"
	ResRecordFieldNotUnique               Code = "RES027"
	ResVariantNotUnique                   Code = "RES028"
	ResInvalidArgumentInTypeClassConstraint Code = "RES029"
	ResUnknownTypeArg                     Code = "RES030"

	// Type checker kinds
	TycTypeMismatch              Code = "TYC001"
	TycFunctionArgumentMismatch  Code = "TYC002"
	TycFunctionArgAndSignatureMismatch Code = "TYC003"
	TycRecursiveType             Code = "TYC004"
	TycInvalidRecordPattern      Code = "TYC005"
	TycInvalidVariantPattern     Code = "TYC006"
	TycInvalidFormatString       Code = "TYC007"
	TycTypeAnnotationNeeded      Code = "TYC008"
	TycAmbiguousFieldAccess      Code = "TYC009"
	TycNonExhaustivePattern      Code = "TYC010"
	TycUnreachablePattern        Code = "TYC011"
	TycMissingInstance           Code = "TYC012"
	TycConflictingInstances      Code = "TYC013"
	TycUntypedExternFunction     Code = "TYC014"
	TycMainNotFound              Code = "TYC015"

	// Monomorphizer kinds
	MonSpecializationFailed Code = "MON001"
)

// Phase returns the stage name a code belongs to, printed beside each
// diagnostic in a report.
func (c Code) Phase() string {
	switch c[:3] {
	case "LEX":
		return "lexer"
	case "PAR":
		return "parser"
	case "RES":
		return "resolver"
	case "TYC":
		return "typecheck"
	case "MON":
		return "monomorphize"
	default:
		return "unknown"
	}
}
