package bridge

import (
	stderrors "errors"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/diag"
	"github.com/wippyai/toto/errors"
	"github.com/wippyai/toto/lexer"
	"github.com/wippyai/toto/resource"
)

// TokenizerHandle references a tokenizer owned by a Bridge.
// The zero handle is never issued.
type TokenizerHandle uint32

// ErrorHandle references a tokenize error owned by a Bridge.
// The zero handle is never issued.
type ErrorHandle uint32

type tokenizer struct {
	tokens *lexer.Tokens
	done   bool
}

func (t *tokenizer) Drop() {
	t.tokens = nil
}

// Bridge owns tokenizers and tokenize errors on behalf of a caller that
// only holds opaque handles.
//
// Handles are generation checked and never reissued: a destroyed handle
// is rejected with StatusNull instead of reaching another tokenizer. Different handles may be
// used from different goroutines; a single tokenizer must not be driven
// concurrently.
type Bridge struct {
	tokenizers *resource.Table[*tokenizer]
	errs       *resource.Table[*errors.Error]
	out        io.Writer
	renderer   *lipgloss.Renderer
	log        *zap.Logger
}

// New creates a bridge with the given options.
func New(opts Options) *Bridge {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	out := opts.Output
	if out == nil {
		out = DefaultOptions().Output
	}

	b := &Bridge{
		tokenizers: resource.NewTable[*tokenizer](),
		errs:       resource.NewTable[*errors.Error](),
		out:        out,
		renderer:   opts.Renderer,
		log:        log,
	}
	b.tokenizers.Subscribe(lifecycle{log: log, what: "tokenizer"})
	b.errs.Subscribe(lifecycle{log: log, what: "error"})
	return b
}

// NewWithDefaults creates a bridge with default options.
func NewWithDefaults() *Bridge {
	return New(DefaultOptions())
}

// NewTokenizer validates src and creates a tokenizer over it. The
// tokenizer borrows src: the caller must keep it alive and unmodified
// until the tokenizer and every text slice taken from it are gone.
func (b *Bridge) NewTokenizer(src []byte) (TokenizerHandle, toto.Status) {
	text, st := Borrow(src)
	if st != toto.StatusOK {
		return 0, st
	}

	h, err := b.tokenizers.Insert(&tokenizer{tokens: lexer.New(text)})
	if err != nil {
		b.log.Warn("tokenizer not created", zap.Error(err))
		return 0, toto.StatusNull
	}
	return TokenizerHandle(h), toto.StatusOK
}

// Next advances the tokenizer by one token. Exactly one outcome is
// reported per call: StatusOK with a token, StatusError with an error
// handle the caller must destroy, or StatusFinished once the input is
// exhausted. Finished is reported again on every later call.
func (b *Bridge) Next(h TokenizerHandle) (Step, toto.Status) {
	t, ok := b.tokenizers.Get(resource.Handle(h))
	if !ok {
		b.stale("next", "tokenizer", uint32(h))
		return Step{}, toto.StatusNull
	}
	if t.done {
		return Step{}, toto.StatusFinished
	}

	tok, err := t.tokens.Next()
	if err == io.EOF {
		t.done = true
		return Step{}, toto.StatusFinished
	}
	if err != nil {
		var lexErr *errors.Error
		if !stderrors.As(err, &lexErr) {
			lexErr = errors.New(errors.PhaseTokenize, errors.KindInvalidPart).Cause(err).Build()
		}
		eh, ierr := b.errs.Insert(lexErr)
		if ierr != nil {
			b.log.Warn("error object not created", zap.Error(ierr))
			return Step{}, toto.StatusNull
		}
		return Step{HasError: true, Error: ErrorHandle(eh)}, toto.StatusError
	}

	step := Step{Tag: tagOf(tok), Start: tok.Start}
	if step.Tag.HasText() {
		step.HasText = true
		step.Text = tok.Text
	}
	return step, toto.StatusOK
}

// DestroyTokenizer releases a tokenizer.
func (b *Bridge) DestroyTokenizer(h TokenizerHandle) toto.Status {
	if _, ok := b.tokenizers.Remove(resource.Handle(h)); !ok {
		b.stale("destroy", "tokenizer", uint32(h))
		return toto.StatusNull
	}
	return toto.StatusOK
}

// Explain renders the error against src on the bridge output. src must be
// the buffer the error was produced from. The error stays owned by the
// caller.
func (b *Bridge) Explain(e ErrorHandle, src []byte) toto.Status {
	return b.ExplainTo(b.out, e, src)
}

// ExplainTo is Explain with an explicit destination.
func (b *Bridge) ExplainTo(w io.Writer, e ErrorHandle, src []byte) toto.Status {
	if w == nil || e == 0 || src == nil {
		return toto.StatusNull
	}
	text, st := Borrow(src)
	if st != toto.StatusOK {
		return st
	}
	lexErr, ok := b.errs.Get(resource.Handle(e))
	if !ok {
		b.stale("explain", "error", uint32(e))
		return toto.StatusNull
	}
	return b.guard("explain", func() error {
		return b.printer(w).Explain(text, lexErr)
	})
}

// Error returns the structured error behind a handle.
func (b *Bridge) Error(e ErrorHandle) (*errors.Error, bool) {
	return b.errs.Get(resource.Handle(e))
}

// DestroyError releases an error object.
func (b *Bridge) DestroyError(e ErrorHandle) toto.Status {
	if _, ok := b.errs.Remove(resource.Handle(e)); !ok {
		b.stale("destroy", "error", uint32(e))
		return toto.StatusNull
	}
	return toto.StatusOK
}

// Live returns the number of tokenizers and errors not yet destroyed.
func (b *Bridge) Live() (tokenizers, errs int) {
	return b.tokenizers.Len(), b.errs.Len()
}

// Close releases every live object. Later calls report StatusNull.
func (b *Bridge) Close() error {
	if t, e := b.Live(); t+e > 0 {
		b.log.Warn("closing bridge with live handles",
			zap.Int("tokenizers", t),
			zap.Int("errors", e))
	}
	return stderrors.Join(b.tokenizers.Close(), b.errs.Close())
}

func (b *Bridge) printer(w io.Writer) *diag.Printer {
	if b.renderer != nil {
		return diag.NewPrinterWithRenderer(w, b.renderer)
	}
	return diag.NewPrinter(w)
}

func (b *Bridge) stale(op, what string, h uint32) {
	if h == 0 {
		return
	}
	b.log.Warn("stale handle",
		zap.String("op", op),
		zap.Error(errors.InvalidHandle(errors.PhaseHandle, what, h)))
}

type lifecycle struct {
	log  *zap.Logger
	what string
}

func (l lifecycle) OnResourceEvent(e resource.Event) {
	l.log.Debug(l.what+" "+e.Type.String(), zap.Uint32("handle", uint32(e.Handle)))
}
