package regtext

const (
	// FileHeader is the required first line of a WINE-dialect .reg stream.
	FileHeader = "WINE REGISTRY Version 2"

	ArchPrefix = "#arch="
	ArchWin32  = "win32"
	ArchWin64  = "win64"

	TimeOptPrefix  = "#time="
	ClassOptPrefix = "#class="
	LinkOpt        = "#link"

	KeyOpenBracket  = "["
	KeyCloseBracket = "]"

	CommentPrefix = ";"

	DefaultValueLine = "@="
	ValueAssignment  = "="

	DWORDPrefix = "dword:"
	HexPrefix   = "hex:"
	HexTypeOpen = "hex("
	StrTypeOpen = "str("
	TypeClose   = "):"

	Quote     = "\""
	Backslash = "\\"

	// ScannerInitialBufferSize is the starting buffer size for the line
	// scanner; ScannerMaxLineSize bounds how large a single logical line
	// (after joining hexbytes continuations) may grow to.
	ScannerInitialBufferSize = 64 * 1024
	ScannerMaxLineSize       = 4 * 1024 * 1024
)
