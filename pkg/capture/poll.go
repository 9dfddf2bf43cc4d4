package capture

import (
	"context"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

const minPollInterval = 50 * time.Millisecond

// readPoller waits for a single non blocking descriptor to become readable.
type readPoller struct {
	efd int
	fd  int
}

func newReadPoller(fd int) (*readPoller, error) {
	efd, err := syscall.EpollCreate1(syscall.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "syscall.EpollCreate1")
	}
	err = syscall.EpollCtl(efd, syscall.EPOLL_CTL_ADD, fd, &syscall.EpollEvent{Fd: int32(fd), Events: syscall.EPOLLIN})
	if err != nil {
		syscall.Close(efd)
		return nil, errors.Wrap(err, "syscall.EpollCtl")
	}
	return &readPoller{efd: efd, fd: fd}, nil
}

// poll calls onRead each time fd is readable until ctx is done. The
// context is checked at least once per interval.
func (p *readPoller) poll(ctx context.Context, interval time.Duration, onRead func(fd int)) error {
	msec := int(max(interval, minPollInterval) / time.Millisecond)
	events := make([]syscall.EpollEvent, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := syscall.EpollWait(p.efd, events, msec)
		if err != nil && err != syscall.EINTR {
			return errors.Wrap(err, "syscall.EpollWait")
		}
		if n > 0 {
			onRead(p.fd)
		}
	}
}

func (p *readPoller) close() {
	syscall.Close(p.efd)
}
