package sim

// Raw input event codes accepted by Input.QueueKey.
const (
	KeyTab        = 9
	KeyReturn     = 13
	KeyEscape     = 27
	KeySpace      = 32
	KeyHome       = 327
	KeyArrowUp    = 328
	KeyPageUp     = 329
	KeyArrowLeft  = 331
	KeyArrowRight = 333
	KeyEnd        = 335
	KeyArrowDown  = 336
	KeyPageDown   = 337

	KeyLowercaseB = 'b'
	KeyLowercaseC = 'c'
	KeyLowercaseE = 'e'
	KeyLowercaseL = 'l'
	KeyLowercaseN = 'n'
	KeyLowercaseP = 'p'

	// KeyFirstInputCharacter and KeyLastInputCharacter bound the printable
	// range accepted by text entry.
	KeyFirstInputCharacter = KeySpace
	KeyLastInputCharacter  = '~'

	// KeyNameEntry opens the name entry field in the character editor.
	KeyNameEntry = 517

	// KeyTownBase + town index requests world map travel to that town.
	KeyTownBase = 500
)

// NameEntryMaxLength is the longest name the character editor accepts.
const NameEntryMaxLength = 11
