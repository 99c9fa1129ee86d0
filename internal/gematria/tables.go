package gematria

// Values and positions of the traditional alphabets. Alternate forms (Hebrew
// final letters, Greek lowercase and final sigma) share the value and
// position of their base letter.

// englishTable: A=1 … Z=26.
func englishTable() *AlphabetTable {
	letters := make([]LetterEntry, 0, 26)
	for i := range 26 {
		letters = append(letters, LetterEntry{
			Char:     rune('A' + i),
			Value:    int64(i + 1),
			Position: i + 1,
		})
	}
	return newTable(ScriptEnglish, letters, nil, nil)
}

// jewishTable is the Latin-letter "Jewish" cipher: A–I count units, K–S
// tens, T–Z hundreds, with J, V and W placed after the Hebrew order.
func jewishTable() *AlphabetTable {
	values := map[rune]int64{
		'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8, 'I': 9,
		'J': 600, 'K': 10, 'L': 20, 'M': 30, 'N': 40, 'O': 50, 'P': 60, 'Q': 70,
		'R': 80, 'S': 90, 'T': 100, 'U': 200, 'V': 700, 'W': 900, 'X': 300,
		'Y': 400, 'Z': 500,
	}
	letters := make([]LetterEntry, 0, 26)
	for i := range 26 {
		ch := rune('A' + i)
		letters = append(letters, LetterEntry{Char: ch, Value: values[ch], Position: i + 1})
	}
	return newTable(ScriptJewish, letters, nil, nil)
}

type hebrewLetter struct {
	char  rune
	final rune // 0 if the letter has no final form
	value int64
	name  string
}

var hebrewLetters = []hebrewLetter{
	{'א', 0, 1, "אלף"},
	{'ב', 0, 2, "בית"},
	{'ג', 0, 3, "גימל"},
	{'ד', 0, 4, "דלת"},
	{'ה', 0, 5, "הא"},
	{'ו', 0, 6, "ויו"},
	{'ז', 0, 7, "זין"},
	{'ח', 0, 8, "חית"},
	{'ט', 0, 9, "טית"},
	{'י', 0, 10, "יוד"},
	{'כ', 'ך', 20, "כף"},
	{'ל', 0, 30, "למד"},
	{'מ', 'ם', 40, "מם"},
	{'נ', 'ן', 50, "נון"},
	{'ס', 0, 60, "סמך"},
	{'ע', 0, 70, "עין"},
	{'פ', 'ף', 80, "פא"},
	{'צ', 'ץ', 90, "צדי"},
	{'ק', 0, 100, "קוף"},
	{'ר', 0, 200, "ריש"},
	{'ש', 0, 300, "שין"},
	{'ת', 0, 400, "תו"},
}

// hebrewTable: Aleph=1 … Tav=400. Atbash pairs the n-th letter with the
// n-th from the end; a final form takes its base letter's partner.
func hebrewTable() *AlphabetTable {
	n := len(hebrewLetters)
	letters := make([]LetterEntry, 0, n+5)
	reversal := make(map[rune]rune, n+5)

	for i, h := range hebrewLetters {
		partner := hebrewLetters[n-1-i].char
		letters = append(letters, LetterEntry{Char: h.char, Value: h.value, Position: i + 1, Name: h.name})
		reversal[h.char] = partner
	}
	for i, h := range hebrewLetters {
		if h.final == 0 {
			continue
		}
		letters = append(letters, LetterEntry{Char: h.final, Value: h.value, Position: i + 1, Name: h.name})
		reversal[h.final] = hebrewLetters[n-1-i].char
	}

	return newTable(ScriptHebrew, letters, reversal, nil)
}

type greekLetter struct {
	upper, lower rune
	value        int64
	name         string
}

var greekLetters = []greekLetter{
	{'Α', 'α', 1, "ΑΛΦΑ"},
	{'Β', 'β', 2, "ΒΗΤΑ"},
	{'Γ', 'γ', 3, "ΓΑΜΜΑ"},
	{'Δ', 'δ', 4, "ΔΕΛΤΑ"},
	{'Ε', 'ε', 5, "ΕΨΙΛΟΝ"},
	{'Ζ', 'ζ', 7, "ΖΗΤΑ"},
	{'Η', 'η', 8, "ΗΤΑ"},
	{'Θ', 'θ', 9, "ΘΗΤΑ"},
	{'Ι', 'ι', 10, "ΙΩΤΑ"},
	{'Κ', 'κ', 20, "ΚΑΠΠΑ"},
	{'Λ', 'λ', 30, "ΛΑΜΒΔΑ"},
	{'Μ', 'μ', 40, "ΜΥ"},
	{'Ν', 'ν', 50, "ΝΥ"},
	{'Ξ', 'ξ', 60, "ΞΙ"},
	{'Ο', 'ο', 70, "ΟΜΙΚΡΟΝ"},
	{'Π', 'π', 80, "ΠΙ"},
	{'Ρ', 'ρ', 100, "ΡΩ"},
	{'Σ', 'σ', 200, "ΣΙΓΜΑ"},
	{'Τ', 'τ', 300, "ΤΑΥ"},
	{'Υ', 'υ', 400, "ΥΨΙΛΟΝ"},
	{'Φ', 'φ', 500, "ΦΙ"},
	{'Χ', 'χ', 600, "ΧΙ"},
	{'Ψ', 'ψ', 700, "ΨΙ"},
	{'Ω', 'ω', 800, "ΩΜΕΓΑ"},
}

// greekTable: Alpha=1 … Omega=800 in both cases, plus final sigma.
func greekTable() *AlphabetTable {
	letters := make([]LetterEntry, 0, 2*len(greekLetters)+1)
	for i, g := range greekLetters {
		letters = append(letters, LetterEntry{Char: g.upper, Value: g.value, Position: i + 1, Name: g.name})
	}
	for i, g := range greekLetters {
		letters = append(letters, LetterEntry{Char: g.lower, Value: g.value, Position: i + 1, Name: g.name})
	}
	letters = append(letters, LetterEntry{Char: 'ς', Value: 200, Position: 18, Name: "ΣΙΓΜΑ"})

	return newTable(ScriptGreek, letters, nil, nil)
}

// latin23Alphabet is the Qabala Simplex set: the classical Latin alphabet
// without J, U and W.
const latin23Alphabet = "ABCDEFGHIKLMNOPQRSTVXYZ"

var latin23Sequences = []SpecialSequence{
	{Seq: "HI", Value: 27},
}

// latin23Table: A=1 … Z=23.
func latin23Table() *AlphabetTable {
	letters := make([]LetterEntry, 0, len(latin23Alphabet))
	for i, ch := range latin23Alphabet {
		letters = append(letters, LetterEntry{Char: ch, Value: int64(i + 1), Position: i + 1})
	}
	return newTable(ScriptLatin23, letters, nil, latin23Sequences)
}
