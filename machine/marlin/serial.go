package marlin

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// timeoutPort tells read timeouts apart from hangups. With a read timeout
// set, tarm/serial returns (0, io.EOF) on Linux and (0, nil) on Windows when
// nothing arrived in time, but a hung-up tty returns the same thing
// immediately. An empty read that took at least half the timeout is
// reported as ErrReadTimeout; a quicker one is the end of the stream.
type timeoutPort struct {
	io.ReadWriteCloser
	timeout time.Duration
	now     func() time.Time
}

func newTimeoutPort(rwc io.ReadWriteCloser, timeout time.Duration) *timeoutPort {
	return &timeoutPort{ReadWriteCloser: rwc, timeout: timeout, now: time.Now}
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	start := p.now()
	n, err := p.ReadWriteCloser.Read(b)
	if n > 0 || (err != nil && err != io.EOF) {
		return n, err
	}
	if p.timeout > 0 && p.now().Sub(start) >= p.timeout/2 {
		return 0, ErrReadTimeout
	}
	return 0, io.EOF
}

// OpenSerial opens the device at path, suitable for use with NewConn.
func OpenSerial(path string, baud int, readTimeout time.Duration) (io.ReadWriteCloser, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        path,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s at %d baud: %w", path, baud, err)
	}
	return newTimeoutPort(p, readTimeout), nil
}
