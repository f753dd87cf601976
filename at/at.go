package at

import "fmt"

const (
	// Terminal Control
	CRLF = "\r\n"

	// Response Codes
	OK       = "OK"
	ERROR    = "ERROR"
	Connect  = "CONNECT"
	CmeError = "+CME ERROR:"

	// SIM states
	SimReady = "READY"

	// HTTP client result prefix (+QHTTPGET: <err>,<status>[,<size>])
	HTTPGetPrefix = "+QHTTPGET:"
)

// Network attach commands.
const (
	CmdEchoOff    = "ATE0"
	CmdSimStatus  = "AT+CPIN?"
	CmdDeactivate = "AT+QIDEACT=1"
	CmdActivate   = "AT+QIACT=1"
)

// HTTP client commands.
const (
	CmdHTTPStop      = "AT+QHTTPSTOP"
	CmdHTTPNoHeaders = `AT+QHTTPCFG="responseheader",0`
)

// CmdAPN builds the context configuration command for the given
// access-point name (context 1, IPv4).
func CmdAPN(apn string) string {
	return fmt.Sprintf(`AT+QICSGP=1,1,"%s","","",1`, apn)
}

// CmdHTTPURL announces an upcoming URL body of n bytes, to be written
// within the modem's input window.
func CmdHTTPURL(n int) string {
	return fmt.Sprintf("AT+QHTTPURL=%d,80", n)
}

// CmdHTTPGet issues the GET with the modem-side response window in seconds.
func CmdHTTPGet(window int) string {
	return fmt.Sprintf("AT+QHTTPGET=%d", window)
}

// CmdHTTPRead starts streaming the fetched body over the UART. The
// window covers the whole transfer, so it is sized for the worst-case
// full file rather than connection setup alone.
func CmdHTTPRead(window int) string {
	return fmt.Sprintf("AT+QHTTPREAD=%d", window)
}
