package server

const (
	okHeader    = "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n"
	errorHeader = "HTTP/1.1 500\r\nContent-Type: text/html\r\n\r\n"

	// ErrorMessage is the only body a caller ever sees on failure.
	ErrorMessage = "Unable to serve. Check all parameters."
)

func okResponse(body string) []byte {
	return []byte(okHeader + body)
}

func errorResponse() []byte {
	return []byte(errorHeader + ErrorMessage)
}
