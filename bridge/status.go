package bridge

import (
	stderrors "errors"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/errors"
)

// StatusOf maps an error onto the boundary status codes. Lexical faults map
// to StatusError; argument and handle faults to StatusNull.
func StatusOf(err error) toto.Status {
	if err == nil {
		return toto.StatusOK
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return toto.StatusNull
	}
	switch e.Kind {
	case errors.KindInvalidUTF8:
		return toto.StatusUTF8
	case errors.KindInvalidOffset:
		return toto.StatusInvalidOffset
	case errors.KindUnclosed, errors.KindInvalidCharacter, errors.KindInvalidPart:
		return toto.StatusError
	}
	return toto.StatusNull
}

// ErrorOf converts a failure code into an error. Codes that are not
// failures return nil; a tokenize error is retrieved with Bridge.Error.
func ErrorOf(st toto.Status, phase errors.Phase) error {
	switch st {
	case toto.StatusNull:
		return errors.New(phase, errors.KindNilPointer).Detail("required argument absent or not live").Build()
	case toto.StatusUTF8:
		return errors.New(phase, errors.KindInvalidUTF8).Detail("input is not valid UTF-8").Build()
	case toto.StatusInvalidOffset:
		return errors.New(phase, errors.KindInvalidOffset).Detail("offset outside text").Build()
	}
	return nil
}
