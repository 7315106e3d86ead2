package main

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
	"github.com/wippyai/toto/errors"
)

// record is one pulled token in a form that outlives the source buffer.
type record struct {
	Text  *string `json:"text,omitempty" yaml:"text,omitempty"`
	Name  string  `json:"name" yaml:"name"`
	Index int     `json:"index" yaml:"index"`
	Start int     `json:"start" yaml:"start"`
	Tag   int32   `json:"tag" yaml:"tag"`
}

func newRecord(i int, step bridge.Step) record {
	r := record{Index: i, Tag: int32(step.Tag), Name: step.Tag.String(), Start: step.Start}
	if step.HasText {
		text := step.OwnedText()
		r.Text = &text
	}
	return r
}

// pullResult summarizes one run of the pull protocol over a buffer.
type pullResult struct {
	records []record
	faults  int
}

// pull drives a tokenizer over src until it finishes. Every lexical error
// is explained to diag and destroyed. Without keepGoing pulling stops at
// the first error.
func pull(b *bridge.Bridge, log *zap.Logger, src []byte, diag io.Writer, keepGoing bool) (pullResult, error) {
	var res pullResult

	h, st := b.NewTokenizer(src)
	if st != toto.StatusOK {
		return res, statusError(st, errors.PhaseValidate)
	}
	defer b.DestroyTokenizer(h)

	for {
		step, st := b.Next(h)
		switch st {
		case toto.StatusOK:
			if ce := log.Check(zap.DebugLevel, "pulled"); ce != nil {
				ce.Write(zap.String("step", spew.Sdump(step)))
			}
			res.records = append(res.records, newRecord(len(res.records), step))
			continue
		case toto.StatusFinished:
			return res, nil
		case toto.StatusError:
			res.faults++
			explained := b.ExplainTo(diag, step.Error, src)
			b.DestroyError(step.Error)
			if explained != toto.StatusOK {
				return res, statusError(explained, errors.PhaseExplain)
			}
			if !keepGoing {
				return res, nil
			}
		default:
			return res, statusError(st, errors.PhaseTokenize)
		}
	}
}
