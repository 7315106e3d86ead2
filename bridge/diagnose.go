package bridge

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/diag"
)

// Position resolves a byte offset of text to a 1-based column and row.
// Offsets outside text or inside a multi-byte character report
// StatusInvalidOffset.
func (b *Bridge) Position(text []byte, offset int) (col, row int, st toto.Status) {
	s, st := Borrow(text)
	if st != toto.StatusOK {
		return 0, 0, st
	}
	st = b.guard("position", func() error {
		col, row = diag.Position(s, offset)
		return nil
	})
	if st != toto.StatusOK {
		return 0, 0, st
	}
	return col, row, st
}

// ShowUnclosed renders a pointer at a construct opened at start.
func (b *Bridge) ShowUnclosed(text []byte, start int) toto.Status {
	return b.show("show_unclosed", text, func(p *diag.Printer, s string) error {
		return p.Unclosed(s, start)
	})
}

// ShowInvalidCharacter renders a pointer at the character at pos.
func (b *Bridge) ShowInvalidCharacter(text []byte, pos int) toto.Status {
	return b.show("show_invalid_character", text, func(p *diag.Printer, s string) error {
		return p.InvalidCharacter(s, pos)
	})
}

// ShowInvalidPart renders a pointer at the span [start, pos).
func (b *Bridge) ShowInvalidPart(text []byte, start, pos int) toto.Status {
	return b.show("show_invalid_part", text, func(p *diag.Printer, s string) error {
		return p.InvalidPart(s, start, pos)
	})
}

func (b *Bridge) show(op string, text []byte, render func(*diag.Printer, string) error) toto.Status {
	s, st := Borrow(text)
	if st != toto.StatusOK {
		return st
	}
	return b.guard(op, func() error {
		return render(b.printer(b.out), s)
	})
}

// guard runs fn behind a fault barrier. A panic inside fn is reported as
// StatusInvalidOffset and never reaches the caller. Write failures are
// logged; the status has no code for them.
func (b *Bridge) guard(op string, fn func() error) (st toto.Status) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("fault barrier tripped",
				zap.String("op", op),
				zap.String("panic", fmt.Sprint(r)))
			st = toto.StatusInvalidOffset
		}
	}()

	if err := fn(); err != nil {
		b.log.Warn("diagnostic not written", zap.String("op", op), zap.Error(err))
	}
	return toto.StatusOK
}

// Output returns the writer diagnostics are rendered to.
func (b *Bridge) Output() io.Writer {
	return b.out
}
