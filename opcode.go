package vasm

// baseMnemonics is the closed table of 3-letter opcode prefixes. Index
// equals the encoded base byte (0x00..0x1f). A flat slice built once,
// looked up by prefix comparison rather than a generated switch or
// reflection.
var baseMnemonics = [...]string{
	"BRK", "INC", "POP", "NIP", "SWP", "ROT", "DUP", "OVR",
	"EQU", "NEQ", "GTH", "LTH", "JMP", "JCN", "JSR", "STH",
	"LDZ", "STZ", "LDR", "STR", "LDA", "STA", "DEI", "DEO",
	"ADD", "SUB", "MUL", "DIV", "AND", "ORA", "EOR", "SFT",
}

// Mode flags, ORed onto a base byte.
const (
	flagShort  byte = 0x20
	flagReturn byte = 0x40
	flagKeep   byte = 0x80
)

// opLIT is BRK with KEEP set, conventionally called LIT: it pushes the
// byte (or short, with SHORT also set) immediately following it. '#'
// literals and label references are encoded through it directly, since
// neither is typed as a base mnemonic.
const opLIT byte = flagKeep

// encode matches ident against the base mnemonic table plus any run of
// mode-flag suffix characters ('2' short, 'k' keep, 'r' return; a
// repeated character just sets its flag again),
// producing a single encoded instruction byte. It reports false when
// ident isn't a recognized opcode at all, so the caller can fall back to
// trying it as a macro invocation.
func encode(ident string) (byte, bool) {
	if ident == "BRK" {
		// BRK alone can't take mode flags; matched here before the
		// prefix loop so a bare "BRK" never picks up the KEEP flag
		// that a longer "BRK"-prefixed identifier gets below.
		return 0x00, true
	}
	if len(ident) < 3 {
		return 0, false
	}

	prefix := ident[:3]
	for i, mnem := range baseMnemonics {
		if prefix != mnem {
			continue
		}

		base := byte(i)
		var flags byte
		if base == 0x00 {
			// Any identifier beyond bare "BRK" that still matches the
			// "BRK" prefix reinterprets it as the LIT family.
			flags |= flagKeep
		}

		for j := 3; j < len(ident); j++ {
			switch ident[j] {
			case '2':
				flags |= flagShort
			case 'k':
				flags |= flagKeep
			case 'r':
				flags |= flagReturn
			default:
				return 0, false
			}
		}

		return base | flags, true
	}

	return 0, false
}
