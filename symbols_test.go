package vasm

import "testing"

func TestResolveLabelNameWithNoMainLabel(t *testing.T) {
	syms := NewSymbolTable()
	assert(t, syms.resolveLabelName("sub") == "sub", "expected bare name with no main label declared")
}

func TestAddLabelMainBecomesScope(t *testing.T) {
	syms := NewSymbolTable()
	main := syms.AddLabel("loop", false, 0x0100)
	assert(t, syms.lastMain == main, "expected main label to become lastMain")
	assert(t, syms.resolveLabelName("again") == "loop/again", "expected qualified sub-label name")
}

func TestAddLabelSubUsesQualifiedKey(t *testing.T) {
	syms := NewSymbolTable()
	syms.AddLabel("loop", false, 0x0100)
	syms.AddLabel("again", true, 0x0105)

	_, ok := syms.labels["loop/again"]
	assert(t, ok, "expected sub label keyed as loop/again")
	assert(t, syms.Exists("again"), "expected Exists to resolve bare sub-label name via current scope")
}

func TestGetLabelAddrBumpsUsageCountAndParent(t *testing.T) {
	syms := NewSymbolTable()
	main := syms.AddLabel("loop", false, 0x0100)
	sub := syms.AddLabel("again", true, 0x0105)

	_, ok := syms.GetLabelAddr("again")
	assert(t, ok, "expected resolution to succeed")
	assert(t, sub.UsageCount == 1, "expected sub label usage count 1, got %d", sub.UsageCount)
	assert(t, main.UsageCount == 1, "expected parent usage count bumped too, got %d", main.UsageCount)
}

func TestGetLabelAddrUnknownFails(t *testing.T) {
	syms := NewSymbolTable()
	_, ok := syms.GetLabelAddr("nowhere")
	assert(t, !ok, "expected unknown label to fail resolution")
}

func TestAddMacroOverwritesSilently(t *testing.T) {
	syms := NewSymbolTable()
	syms.AddMacro("inc2", cursorState{pos: 10})
	syms.AddMacro("inc2", cursorState{pos: 20})

	m := syms.macros["inc2"]
	assert(t, m.Body.pos == 20, "expected later definition to win, got pos %d", m.Body.pos)
}
