package vasm

// Label is a named address in the assembled program. Addresses are fixed
// at creation time in pass 1 and never revisited; UsageCount just tracks
// how many times pass 2 resolved a reference to it (and bubbles up to
// Parent, the main label that was current when this one was declared, so
// a main label's sub labels contribute to the main label's own count too).
type Label struct {
	Name       string
	Address    uint16
	UsageCount int
	Parent     *Label
}

// Macro records where a macro's body begins. The body itself is never
// pre-scanned; Body is replayed through the pass-2 dispatch loop
// each time the macro is invoked (see expandMacro in assembler.go).
type Macro struct {
	Body cursorState
}

// SymbolTable holds both the label and macro namespaces for one
// assembly. Labels are never removed once added; macros silently
// overwrite an earlier definition of the same name.
type SymbolTable struct {
	labels   map[string]*Label
	macros   map[string]*Macro
	lastMain *Label
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		labels: make(map[string]*Label),
		macros: make(map[string]*Macro),
	}
}

// resolveLabelName qualifies a bare sub-label name with the last
// declared main label, e.g. "sub" under "@main" becomes "main/sub". With
// no main label declared yet, the name passes through unchanged.
func (t *SymbolTable) resolveLabelName(name string) string {
	if t.lastMain != nil {
		return t.lastMain.Name + "/" + name
	}
	return name
}

// Exists reports whether name is already a known label, either directly
// or via sub-label qualification against the current main label.
func (t *SymbolTable) Exists(name string) bool {
	if _, ok := t.labels[name]; ok {
		return true
	}
	_, ok := t.labels[t.resolveLabelName(name)]
	return ok
}

// AddLabel records a new label at addr. A main label (isSub == false)
// becomes the scope for subsequent sub labels and is keyed by its bare
// name; a sub label is keyed by its fully qualified name.
func (t *SymbolTable) AddLabel(name string, isSub bool, addr uint16) *Label {
	lbl := &Label{Name: name, Address: addr, Parent: t.lastMain}
	if isSub {
		t.labels[t.resolveLabelName(name)] = lbl
	} else {
		t.labels[name] = lbl
		t.lastMain = lbl
	}
	return lbl
}

// GetLabelAddr resolves name directly, then via sub-label qualification.
// On success it bumps the label's usage count (and its parent's, if
// any) and returns its address.
func (t *SymbolTable) GetLabelAddr(name string) (uint16, bool) {
	lbl, ok := t.labels[name]
	if !ok {
		lbl, ok = t.labels[t.resolveLabelName(name)]
	}
	if !ok {
		return 0, false
	}

	lbl.UsageCount++
	if lbl.Parent != nil {
		lbl.Parent.UsageCount++
	}
	return lbl.Address, true
}

// AddMacro records (or silently replaces) the body location of a macro.
func (t *SymbolTable) AddMacro(name string, body cursorState) {
	t.macros[name] = &Macro{Body: body}
}
