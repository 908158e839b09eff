package consts

// Verb labels. The line protocol carries no verb on the wire,
// these only label registrations for diagnostics.
const (
	MethodAll = "ALL"
	MethodGet = "GET"
)

const (
	ProtocolTCP = "tcp"
	RootPath    = "/"

	DefaultAddress       = ":7070"
	DefaultMaxLineLength = 4096
)

const (
	CRLF = "\r\n"

	RuneNewLine     = '\n'
	RuneCarriageRet = '\r'
	RuneTab         = '\t'
	RuneFwdSlash    = '/'
)

// Error lines written back to the client.
const (
	ErrorLinePrefix = "ERR "
	MsgNotFound     = "not found"
	MsgLineTooLong  = "request line too long"
	MsgTimeout      = "handler timed out"
	MsgServerError  = "server error"
)
