//go:build linux

package firmware

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mboxIoctl is _IOWR(100, 0, char *) with a 64-bit pointer size.
const mboxIoctl = 0xc0086400

// Client is a handle on the mailbox property channel.
type Client struct {
	mu sync.Mutex
	fd int
}

// Open opens /dev/vcio.
func Open() (*Client, error) {
	fd, err := unix.Open("/dev/vcio", unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("firmware: open /dev/vcio: %w", err)
	}
	return &Client{fd: fd}, nil
}

// Close releases the mailbox handle.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return unix.Close(c.fd)
}

// Property performs a single-tag property call and returns the response
// value words.
func (c *Client) Property(tag uint32, args []uint32, respWords int) ([]uint32, error) {
	msg := buildMessage(tag, args, respWords)

	c.mu.Lock()
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), mboxIoctl,
		uintptr(unsafe.Pointer(&msg[0])))
	c.mu.Unlock()
	if errno != 0 {
		return nil, fmt.Errorf("firmware: mailbox ioctl: %w", errno)
	}

	return parseResponse(msg, tag, respWords)
}
