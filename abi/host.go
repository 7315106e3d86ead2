package abi

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/toto"
	"github.com/wippyai/toto/bridge"
	"github.com/wippyai/toto/errors"
)

// ModuleName is the import module guests link against.
const ModuleName = "toto"

// Host exposes a bridge to WebAssembly guests as the "toto" host module.
//
// Text arguments are (ptr, len) pairs in the calling guest's memory and a
// zero pointer stands for an absent argument. Results are written through
// out pointers to little-endian u32 slots; every function returns a status
// code. Token text pointers address the guest's own source buffer.
type Host struct {
	bridge  *bridge.Bridge
	sources map[bridge.TokenizerHandle]uint32
	mu      sync.Mutex
}

// NewHost creates a host module over b.
func NewHost(b *bridge.Bridge) *Host {
	return &Host{
		bridge:  b,
		sources: make(map[bridge.TokenizerHandle]uint32),
	}
}

// Namespace returns the import module name.
func (h *Host) Namespace() string {
	return ModuleName
}

// Bridge returns the bridge the host forwards to.
func (h *Host) Bridge() *bridge.Bridge {
	return h.bridge
}

// Instantiate registers the host module in rt.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(ModuleName)
	for _, f := range h.functions() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, i32s(f.params), i32s(1)).
			Export(f.name)
	}
	return builder.Instantiate(ctx)
}

type hostFunc struct {
	fn     api.GoModuleFunc
	name   string
	params int
}

func (h *Host) functions() []hostFunc {
	return []hostFunc{
		{api.GoModuleFunc(h.tokenizerNew), "tokenizer_new", 3},
		{api.GoModuleFunc(h.tokenizerNext), "tokenizer_next", 8},
		{api.GoModuleFunc(h.tokenizerDestroy), "tokenizer_destroy", 1},
		{api.GoModuleFunc(h.errorExplain), "error_explain", 3},
		{api.GoModuleFunc(h.errorDestroy), "error_destroy", 1},
		{api.GoModuleFunc(h.debugGetPosition), "debug_get_position", 5},
		{api.GoModuleFunc(h.debugShowUnclosed), "debug_show_unclosed", 3},
		{api.GoModuleFunc(h.debugShowInvalidCharacter), "debug_show_invalid_character", 3},
		{api.GoModuleFunc(h.debugShowInvalidPart), "debug_show_invalid_part", 4},
	}
}

func i32s(n int) []api.ValueType {
	types := make([]api.ValueType, n)
	for i := range types {
		types[i] = api.ValueTypeI32
	}
	return types
}

func ret(stack []uint64, st toto.Status) {
	stack[0] = api.EncodeI32(int32(st))
}

// tokenizer_new(src_ptr, src_len, out_handle) -> status
func (h *Host) tokenizerNew(_ context.Context, mod api.Module, stack []uint64) {
	srcPtr, srcLen, out := api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	mem := mod.Memory()
	if !writable(mem, out) {
		ret(stack, toto.StatusNull)
		return
	}
	src, st := readText(mem, srcPtr, srcLen)
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}

	th, st := h.bridge.NewTokenizer(src)
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}
	h.mu.Lock()
	h.sources[th] = srcPtr
	h.mu.Unlock()

	mem.WriteUint32Le(out, uint32(th))
	ret(stack, toto.StatusOK)
}

// tokenizer_next(handle, out_tag, out_has_text, out_text, out_len,
// out_start, out_has_error, out_error) -> status
func (h *Host) tokenizerNext(_ context.Context, mod api.Module, stack []uint64) {
	th := bridge.TokenizerHandle(api.DecodeU32(stack[0]))
	var outs [7]uint32
	for i := range outs {
		outs[i] = api.DecodeU32(stack[i+1])
	}
	mem := mod.Memory()
	if !writable(mem, outs[:]...) {
		ret(stack, toto.StatusNull)
		return
	}

	h.mu.Lock()
	srcPtr, ok := h.sources[th]
	h.mu.Unlock()
	if !ok {
		ret(stack, toto.StatusNull)
		return
	}

	step, st := h.bridge.Next(th)
	switch st {
	case toto.StatusOK:
		mem.WriteUint32Le(outs[0], uint32(step.Tag))
		mem.WriteUint32Le(outs[1], flag(step.HasText))
		if step.HasText {
			mem.WriteUint32Le(outs[2], srcPtr+uint32(step.Start))
			mem.WriteUint32Le(outs[3], uint32(step.Len()))
		}
		mem.WriteUint32Le(outs[4], uint32(step.Start))
		mem.WriteUint32Le(outs[5], 0)
	case toto.StatusError:
		mem.WriteUint32Le(outs[5], 1)
		mem.WriteUint32Le(outs[6], uint32(step.Error))
	}
	ret(stack, st)
}

// tokenizer_destroy(handle) -> status
func (h *Host) tokenizerDestroy(_ context.Context, _ api.Module, stack []uint64) {
	th := bridge.TokenizerHandle(api.DecodeU32(stack[0]))
	st := h.bridge.DestroyTokenizer(th)
	if st == toto.StatusOK {
		h.mu.Lock()
		delete(h.sources, th)
		h.mu.Unlock()
	}
	ret(stack, st)
}

// error_explain(error, src_ptr, src_len) -> status
func (h *Host) errorExplain(_ context.Context, mod api.Module, stack []uint64) {
	e := bridge.ErrorHandle(api.DecodeU32(stack[0]))
	if e == 0 {
		ret(stack, toto.StatusNull)
		return
	}
	src, st := readText(mod.Memory(), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}
	ret(stack, h.bridge.Explain(e, src))
}

// error_destroy(error) -> status
func (h *Host) errorDestroy(_ context.Context, _ api.Module, stack []uint64) {
	ret(stack, h.bridge.DestroyError(bridge.ErrorHandle(api.DecodeU32(stack[0]))))
}

// debug_get_position(text_ptr, text_len, offset, out_col, out_row) -> status
func (h *Host) debugGetPosition(_ context.Context, mod api.Module, stack []uint64) {
	mem := mod.Memory()
	outCol, outRow := api.DecodeU32(stack[3]), api.DecodeU32(stack[4])
	if !writable(mem, outCol, outRow) {
		ret(stack, toto.StatusNull)
		return
	}
	text, st := readText(mem, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}

	col, row, st := h.bridge.Position(text, int(api.DecodeU32(stack[2])))
	if st == toto.StatusOK {
		mem.WriteUint32Le(outCol, uint32(col))
		mem.WriteUint32Le(outRow, uint32(row))
	}
	ret(stack, st)
}

// debug_show_unclosed(text_ptr, text_len, start) -> status
func (h *Host) debugShowUnclosed(_ context.Context, mod api.Module, stack []uint64) {
	text, st := readText(mod.Memory(), api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}
	ret(stack, h.bridge.ShowUnclosed(text, int(api.DecodeU32(stack[2]))))
}

// debug_show_invalid_character(text_ptr, text_len, pos) -> status
func (h *Host) debugShowInvalidCharacter(_ context.Context, mod api.Module, stack []uint64) {
	text, st := readText(mod.Memory(), api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}
	ret(stack, h.bridge.ShowInvalidCharacter(text, int(api.DecodeU32(stack[2]))))
}

// debug_show_invalid_part(text_ptr, text_len, start, pos) -> status
func (h *Host) debugShowInvalidPart(_ context.Context, mod api.Module, stack []uint64) {
	text, st := readText(mod.Memory(), api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if st != toto.StatusOK {
		ret(stack, st)
		return
	}
	ret(stack, h.bridge.ShowInvalidPart(text, int(api.DecodeU32(stack[2])), int(api.DecodeU32(stack[3]))))
}

// readText returns a view of guest memory without copying. A zero pointer
// or a range outside memory is an absent argument.
func readText(mem api.Memory, ptr, length uint32) ([]byte, toto.Status) {
	if ptr == 0 || mem == nil {
		return nil, toto.StatusNull
	}
	buf, ok := mem.Read(ptr, length)
	if !ok {
		Logger().Warn("guest text out of bounds",
			zap.Error(errors.OutOfBounds(errors.PhaseABI, ptr, length)))
		return nil, toto.StatusNull
	}
	return buf, toto.StatusOK
}

func writable(mem api.Memory, ptrs ...uint32) bool {
	if mem == nil {
		return false
	}
	size := uint64(mem.Size())
	for _, p := range ptrs {
		if p == 0 || uint64(p)+4 > size {
			return false
		}
	}
	return true
}

func flag(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
