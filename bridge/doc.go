// Package bridge drives the tokenizer on behalf of callers that can only
// hold opaque handles and read status codes.
//
// Every entry point validates its text through Borrow before doing any
// work, reports failures as toto.Status values, and never lets a panic
// escape: the diagnostic operations and Explain run behind a recover
// barrier that turns a bad offset into toto.StatusInvalidOffset.
//
// # Pull Protocol
//
//	h, st := b.NewTokenizer(src)
//	for {
//	    step, st := b.Next(h)
//	    if st == toto.StatusFinished {
//	        break
//	    }
//	    if st == toto.StatusError {
//	        b.Explain(step.Error, src)
//	        b.DestroyError(step.Error)
//	        break
//	    }
//	    use(step.Tag, step.Start, step.Text)
//	}
//	b.DestroyTokenizer(h)
//
// # Ownership
//
// The bridge borrows source buffers. Step.Text aliases the buffer passed to
// NewTokenizer and is invalid once that buffer is freed or modified; use
// Step.OwnedText for a copy. Tokenizer and error handles are owned by the
// caller and must each be destroyed once. Destroyed handles are rejected
// with toto.StatusNull.
package bridge
