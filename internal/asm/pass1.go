package asm

// pass1.go implements the first pass: layout, label capture, and partial encoding.
// Grounded on the teacher's Parser.Parse/parseLine driver loop in parser.go (a
// bufio.Scanner feeding a per-line dispatch with an explicit position counter), but
// driven over an in-memory slice of already-expanded lines instead of a stream, since
// pass two needs to re-walk the same text and the preprocessor has already produced it
// in full.

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/arlovac/quad4asm/internal/lex"
	"github.com/arlovac/quad4asm/internal/symtab"
	"github.com/arlovac/quad4asm/internal/word"
)

// PassOne runs the first pass over already macro-expanded source text, assigning
// addresses to labels, emitting partially encoded instruction words, and collecting
// data words. It returns an error (joining every diagnostic raised) if any line failed;
// callers should not proceed to PassTwo when PassOne returns a non-nil error.
func (a *Assembler) PassOne(source string) error {
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		lineNo := i + 1

		if lineNo == len(lines) && line == "" {
			continue // Trailing newline produces one empty trailing element.
		}

		if len(line) > a.MaxLineLen {
			a.addError(newError(KindStructural, lineNo, line, "line too long"))
		}

		a.passOneLine(lineNo, line)
	}

	a.Symbols.ShiftDataSymbols(a.IC)
	a.Data.ShiftAddresses(a.IC)

	return a.Err()
}

func (a *Assembler) passOneLine(lineNo int, line string) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == ';' {
		return
	}

	var label string

	remain := line

	if end, ok := lex.IsSymbolDefinition(line, 0); ok {
		label = line[:end-1]
		remain = line[end:]
	}

	remain = strings.TrimLeft(remain, " \t")

	if kind, ok := lex.IsDirective(remain); ok {
		switch kind {
		case lex.DirectiveData, lex.DirectiveString, lex.DirectiveMat:
			a.passOneData(lineNo, line, label, kind, strings.TrimLeft(remain[directiveKeywordLen(kind):], " \t"))
		case lex.DirectiveExtern:
			a.passOneExtern(lineNo, line, label, strings.TrimSpace(remain[len(".extern"):]))
		case lex.DirectiveEntry:
			a.passOneEntrySyntaxCheck(lineNo, line, strings.TrimSpace(remain[len(".entry"):]))
		}

		return
	}

	a.passOneInstruction(lineNo, line, label, remain)
}

func directiveKeywordLen(kind lex.DirectiveKind) int {
	switch kind {
	case lex.DirectiveData:
		return len(".data")
	case lex.DirectiveString:
		return len(".string")
	case lex.DirectiveMat:
		return len(".mat")
	default:
		return 0
	}
}

func (a *Assembler) insertLabel(lineNo int, line, label string, kind symtab.Kind, value int) {
	if label == "" {
		return
	}

	h, err := a.Symbols.Insert(label)
	if err != nil {
		a.addError(newError(KindSemantic, lineNo, line, "duplicate symbol definition: %s", label))
		return
	}

	a.Symbols.SetKind(h, kind)
	a.Symbols.SetValue(h, value)
}

func (a *Assembler) passOneData(lineNo int, line, label string, kind lex.DirectiveKind, payload string) {
	a.insertLabel(lineNo, line, label, symtab.KindData, a.DC)

	switch kind {
	case lex.DirectiveData:
		a.emitDataList(lineNo, line, payload)
	case lex.DirectiveString:
		a.emitString(lineNo, line, payload)
	case lex.DirectiveMat:
		a.emitMatrix(lineNo, line, payload)
	}
}

func (a *Assembler) emitDataList(lineNo int, line, payload string) {
	if errKind, pos := lex.GetDataCommaErrorType(payload); errKind != lex.CommaOK {
		a.addError(newError(KindStructural, lineNo, line, "%s at position %d", commaErrorText(errKind), pos))
		return
	}

	values, ok := lex.IsLegalDataOrMatrixInitialization(payload)
	if !ok {
		a.addError(newError(KindLexical, lineNo, line, "invalid number in .data list"))
		return
	}

	for _, v := range values {
		a.Data.Append(word.New(word.EncodeN(v, word.Width), a.DC, word.KindData))
		a.DC++
	}
}

func (a *Assembler) emitString(lineNo int, line, payload string) {
	s, ok := lex.IsLegalString(payload)
	if !ok {
		a.addError(newError(KindLexical, lineNo, line, "invalid string literal"))
		return
	}

	for i := 0; i < len(s); i++ {
		a.Data.Append(word.New(word.EncodeChar(s[i]), a.DC, word.KindData))
		a.DC++
	}

	a.Data.Append(word.Zero(a.DC, word.KindData))
	a.DC++
}

func (a *Assembler) emitMatrix(lineNo int, line, payload string) {
	rows, cols, rest, ok := lex.IsLegalMat(payload)
	if !ok {
		a.addError(newError(KindLexical, lineNo, line, "invalid matrix dimensions"))
		return
	}

	if errKind, pos := lex.GetDataCommaErrorType(rest); errKind != lex.CommaOK {
		a.addError(newError(KindStructural, lineNo, line, "%s at position %d", commaErrorText(errKind), pos))
		return
	}

	values, ok := lex.IsLegalDataOrMatrixInitialization(rest)
	if !ok {
		a.addError(newError(KindLexical, lineNo, line, "invalid number in .mat list"))
		return
	}

	total := rows * cols
	if len(values) > total {
		a.addError(newError(KindSemantic, lineNo, line, "too many values for %dx%d matrix", rows, cols))
		return
	}

	for i := 0; i < total; i++ {
		v := 0
		if i < len(values) {
			v = values[i]
		}

		a.Data.Append(word.New(word.EncodeN(v, word.Width), a.DC, word.KindData))
		a.DC++
	}
}

func commaErrorText(kind lex.CommaErrorKind) string {
	switch kind {
	case lex.CommaLeading:
		return "leading comma"
	case lex.CommaTrailing:
		return "trailing comma"
	case lex.CommaDouble:
		return "double comma"
	case lex.CommaMissing:
		return "missing comma"
	default:
		return "comma error"
	}
}

func (a *Assembler) passOneExtern(lineNo int, line, label, operand string) {
	if label != "" {
		// A label before .extern is a warning, not an error; the token is discarded.
		slog.Warn("label before .extern is ignored", "line", lineNo, "label", label)
	}

	end, ok := lex.IsSymbol(operand+"\n", 0)
	if !ok || end != len(operand) {
		a.addError(newError(KindLexical, lineNo, line, "invalid symbol in .extern"))
		return
	}

	if h, found := a.Symbols.Find(operand); found {
		existing := a.Symbols.Get(h)
		if existing.Kind != symtab.KindExternal {
			a.addError(newError(KindSemantic, lineNo, line, "redefining %q as external", operand))
		}

		return
	}

	h, err := a.Symbols.Insert(operand)
	if err != nil {
		a.addError(newError(KindSemantic, lineNo, line, "duplicate symbol definition: %s", operand))
		return
	}

	a.Symbols.SetKind(h, symtab.KindExternal)
	a.Symbols.SetValue(h, 0)
}

func (a *Assembler) passOneEntrySyntaxCheck(lineNo int, line, operand string) {
	if end, ok := lex.IsSymbol(operand+"\n", 0); !ok || end != len(operand) {
		a.addError(newError(KindLexical, lineNo, line, "invalid symbol in .entry"))
	}
}

func (a *Assembler) passOneInstruction(lineNo int, line, label, remain string) {
	remain = strings.TrimLeft(remain, " \t")

	opcodeName, rest := splitToken(remain)

	opcode, ok := opcodeByName(opcodeName)
	if !ok {
		a.addError(newError(KindSemantic, lineNo, line, "invalid opcode: %q", opcodeName))
		return
	}

	a.insertLabel(lineNo, line, label, symtab.KindCode, a.IC)

	info := opcodes[opcode]
	rest = strings.TrimSpace(rest)

	var srcText, dstText string

	switch info.Operands {
	case 0:
		if rest != "" {
			a.addError(newError(KindStructural, lineNo, line, "extra characters after operand"))
			return
		}
	case 1:
		dstText = rest
	case 2:
		var err error

		srcText, dstText, err = splitOperandPair(rest)
		if err != nil {
			a.addError(newError(KindStructural, lineNo, line, "%s", err.Error()))
			return
		}
	}

	src := Operand{Mode: ModeNone}
	dst := Operand{Mode: ModeNone}

	ok = true

	if srcText != "" {
		src, ok = a.parseOperand(lineNo, line, srcText)
	}

	if ok && dstText != "" {
		dst, ok = a.parseOperand(lineNo, line, dstText)
	}

	if !ok {
		return
	}

	if src.Mode != ModeNone && !info.SrcLegal[src.Mode] {
		a.addError(newError(KindSemantic, lineNo, line, "illegal addressing mode for %s source operand", info.Name))
		return
	}

	if dst.Mode != ModeNone && !info.DstLegal[dst.Mode] {
		a.addError(newError(KindSemantic, lineNo, line, "illegal addressing mode for %s destination operand", info.Name))
		return
	}

	order := a.buildOrder(lineNo, line, opcode, src, dst)
	a.Orders = append(a.Orders, order)
	a.IC += len(order.Words)
}

// splitToken returns the first whitespace-delimited token and the remainder.
func splitToken(s string) (token, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}

	return s[:i], s[i+1:]
}

// splitOperandPair splits "src, dst" on the single top-level comma. Brackets (matrix
// operands) never contain a top-level comma since registers are separated into their
// own brackets, so a plain rune scan suffices.
func splitOperandPair(s string) (src, dst string, err error) {
	depth := 0
	commaAt := -1

	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				if commaAt >= 0 {
					return "", "", errDoubleComma
				}

				commaAt = i
			}
		}
	}

	if commaAt < 0 {
		return "", "", errMissingComma
	}

	src = strings.TrimSpace(s[:commaAt])
	dst = strings.TrimSpace(s[commaAt+1:])

	if src == "" || dst == "" {
		return "", "", errMissingComma
	}

	return src, dst, nil
}

var (
	errMissingComma = strconvErr("missing comma between operands")
	errDoubleComma  = strconvErr("double comma between operands")
)

type strconvErr string

func (e strconvErr) Error() string { return string(e) }

// parseOperand classifies one operand token. Checks run in an order that resolves the
// only real ambiguity in the grammar: a token matching the register pattern (r0..r7)
// is always a register, never a direct symbol -- but a token starting with 'r' that is
// NOT a legal register (e.g. "r8": digit out of range, or trailing characters) falls
// through to the direct-symbol check rather than failing outright, since is_symbol
// permits any letter as the first character.
func (a *Assembler) parseOperand(lineNo int, line, text string) (Operand, bool) {
	if strings.HasPrefix(text, "#") {
		if end, ok := lex.IsDirect(text, 0); ok && end == len(text) {
			n, _ := strconv.Atoi(text[1:])
			return Operand{Mode: ModeImmediate, Value: n}, true
		}

		a.addError(newError(KindLexical, lineNo, line, "invalid immediate operand: %q", text))

		return Operand{}, false
	}

	if strings.ContainsRune(text, '[') {
		if sym, regX, regY, ok := lex.IsMatOperand(text); ok {
			return Operand{
				Mode:   ModeMatrix,
				Symbol: sym,
				RegX:   int(regX[1] - '0'),
				RegY:   int(regY[1] - '0'),
			}, true
		}

		a.addError(newError(KindLexical, lineNo, line, "invalid matrix operand: %q", text))

		return Operand{}, false
	}

	if ctx, end, ok := lex.IsRegister(text+"\n", 0); ok && end == len(text) && ctx != lex.RegisterContextNone {
		return Operand{Mode: ModeRegister, Value: int(text[1] - '0')}, true
	}

	if end, ok := lex.IsSymbol(text+"\n", 0); ok && end == len(text) {
		return Operand{Mode: ModeDirect, Symbol: text}, true
	}

	a.addError(newError(KindLexical, lineNo, line, "invalid operand: %q", text))

	return Operand{}, false
}

// buildOrder computes the word count, allocates and packs words for one instruction,
// and records the indices of any placeholder words that pass two must patch.
func (a *Assembler) buildOrder(lineNo int, line string, opcode int, src, dst Operand) *Order {
	order := &Order{
		Line:       lineNo,
		Source:     line,
		Address:    a.IC,
		Opcode:     opcode,
		Src:        src,
		Dst:        dst,
		SrcWordIdx: -1,
		DstWordIdx: -1,
	}

	srcMode, dstMode := 0, 0
	if src.Mode != ModeNone {
		srcMode = int(src.Mode)
	}

	if dst.Mode != ModeNone {
		dstMode = int(dst.Mode)
	}

	leading := word.EncodeN(opcode, 4) + word.EncodeN(srcMode, 2) + word.EncodeN(dstMode, 2) + "00"
	order.Words.Append(word.New(leading, a.IC, word.KindInstruction))

	addr := a.IC + 1

	fused := src.Mode == ModeRegister && dst.Mode == ModeRegister
	if fused {
		bits := word.EncodeN(src.Value, 4) + word.EncodeN(dst.Value, 4) + "00"
		order.Words.Append(word.New(bits, addr, word.KindInstruction))

		return order
	}

	if !src.None() {
		addr = a.appendOperandWords(order, &order.Src, addr, true)
	}

	if !dst.None() {
		a.appendOperandWords(order, &order.Dst, addr, false)
	}

	return order
}

// appendOperandWords appends the word(s) for one non-register-pair operand, recording
// the placeholder index on the order when the operand carries a deferred symbol
// reference. It returns the next free address.
func (a *Assembler) appendOperandWords(order *Order, op *Operand, addr int, isSrc bool) int {
	switch op.Mode {
	case ModeImmediate:
		bits := word.EncodeN(op.Value, 8) + "00"
		order.Words.Append(word.New(bits, addr, word.KindInstruction))

		return addr + 1
	case ModeRegister:
		var bits string
		if isSrc {
			bits = word.EncodeN(op.Value, 4) + "0000" + "00"
		} else {
			bits = "0000" + word.EncodeN(op.Value, 4) + "00"
		}

		order.Words.Append(word.New(bits, addr, word.KindInstruction))

		return addr + 1
	case ModeDirect:
		idx := len(order.Words)
		order.Words.Append(word.Placeholder(addr, op.Symbol))

		if isSrc {
			order.SrcWordIdx = idx
		} else {
			order.DstWordIdx = idx
		}

		return addr + 1
	case ModeMatrix:
		idx := len(order.Words)
		order.Words.Append(word.Placeholder(addr, op.Symbol))

		if isSrc {
			order.SrcWordIdx = idx
		} else {
			order.DstWordIdx = idx
		}

		regBits := word.EncodeN(op.RegX, 4) + word.EncodeN(op.RegY, 4) + "00"
		order.Words.Append(word.New(regBits, addr+1, word.KindInstruction))

		return addr + 2
	default:
		return addr
	}
}
