package shell

import "io"

func NewDecodingWriter(dst io.Writer) io.WriteCloser {
	return &decodingWriter{dst: dst}
}

var LooksUTF16LE = looksUTF16LE
