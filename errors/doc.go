// Package errors provides structured error types for the toto bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Lexical errors carry byte offsets into the text they were produced against:
// Start for the beginning of the faulty construct, Pos for the fault itself.
// Unset offsets hold NoOffset.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTokenize, errors.KindInvalidPart).
//		Start(4).
//		Pos(9).
//		Detail("invalid number").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unclosed(4, "string")
//	err := errors.InvalidOffset(errors.PhaseDiagnose, 12, 10)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
