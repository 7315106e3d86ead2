package abi

import "bytes"

// guestModule encodes a core module that imports every host function,
// re-exports a wrapper for each under the same name, and exports one page
// of memory as "memory".
func guestModule(funcs []hostFunc) []byte {
	var types, imports, decls, exports, code bytes.Buffer

	n := uint32(len(funcs))
	writeU32(&types, n)
	writeU32(&imports, n)
	writeU32(&decls, n)
	writeU32(&exports, n+1)
	writeU32(&code, n)

	writeName(&exports, "memory")
	exports.WriteByte(0x02)
	writeU32(&exports, 0)

	for i, f := range funcs {
		idx := uint32(i)

		types.WriteByte(0x60)
		writeU32(&types, uint32(f.params))
		for range f.params {
			types.WriteByte(0x7f)
		}
		writeU32(&types, 1)
		types.WriteByte(0x7f)

		writeName(&imports, ModuleName)
		writeName(&imports, f.name)
		imports.WriteByte(0x00)
		writeU32(&imports, idx)

		writeU32(&decls, idx)

		writeName(&exports, f.name)
		exports.WriteByte(0x00)
		writeU32(&exports, n+idx)

		var body bytes.Buffer
		writeU32(&body, 0) // no locals
		for p := range f.params {
			body.WriteByte(0x20) // local.get
			writeU32(&body, uint32(p))
		}
		body.WriteByte(0x10) // call
		writeU32(&body, idx)
		body.WriteByte(0x0b) // end
		writeU32(&code, uint32(body.Len()))
		code.Write(body.Bytes())
	}

	var memory bytes.Buffer
	writeU32(&memory, 1)
	memory.WriteByte(0x00)
	writeU32(&memory, 1)

	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})
	writeSection(&out, 1, types.Bytes())
	writeSection(&out, 2, imports.Bytes())
	writeSection(&out, 3, decls.Bytes())
	writeSection(&out, 5, memory.Bytes())
	writeSection(&out, 7, exports.Bytes())
	writeSection(&out, 10, code.Bytes())
	return out.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, data []byte) {
	w.WriteByte(id)
	writeU32(w, uint32(len(data)))
	w.Write(data)
}

func writeName(w *bytes.Buffer, s string) {
	writeU32(w, uint32(len(s)))
	w.WriteString(s)
}

func writeU32(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}
