// Package toto lets callers that cannot use the tokenizing engine directly
// drive a TOML-like tokenizer one token at a time across a call boundary.
//
// The root package holds the external contract shared by every boundary
// rendition: the Status codes and the stable Tag table.
//
// # Architecture Overview
//
//	toto/            Status codes and token tags
//	├── errors/      Structured error types with phase and kind
//	├── lexer/       Tokenizing engine producing raw lexemes
//	├── diag/        Position resolution and diagnostic rendering
//	├── resource/    Generation-checked opaque handle tables
//	├── bridge/      Validation gate, handles, pull protocol, fault barrier
//	├── abi/         WebAssembly host module over the bridge (wazero)
//	└── cmd/
//	    ├── toto/    Command line driver
//	    └── libtoto/ C shared library exports
//
// # Quick Start
//
//	b := bridge.NewWithDefaults()
//
//	h, st := b.NewTokenizer(src)
//	if st != toto.StatusOK {
//	    return st
//	}
//	defer b.DestroyTokenizer(h)
//
//	for {
//	    step, st := b.Next(h)
//	    switch st {
//	    case toto.StatusOK:
//	        fmt.Println(step.Tag, step.Start, step.Text)
//	        continue
//	    case toto.StatusError:
//	        b.Explain(step.Error, src)
//	        b.DestroyError(step.Error)
//	    }
//	    break
//	}
//
// # Borrowed Text
//
// The bridge never copies the source buffer. Token text aliases the bytes
// passed to NewTokenizer, so the caller must keep them alive and unmodified
// until the handle, every token text and every error object derived from
// them are gone. Step.OwnedText returns a private copy when that contract
// is inconvenient.
package toto
