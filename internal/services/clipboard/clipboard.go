// Package clipboard copies rendered documents to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported reports that no clipboard utility is available on this system.
var ErrUnsupported = errors.New("system clipboard is not available (install xclip, xsel or wl-clipboard)")

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// Service copies text to the system clipboard.
type Service struct {
	unsupported func() bool
	write       func(string) error
}

// NewService returns a Service backed by the operating system clipboard.
func NewService() *Service {
	return &Service{
		unsupported: func() bool { return clipboard.Unsupported },
		write:       clipboard.WriteAll,
	}
}

// Copy writes text to the clipboard, failing with ErrUnsupported when no clipboard utility exists.
func (service *Service) Copy(text string) error {
	if service.unsupported() {
		return ErrUnsupported
	}
	return service.write(text)
}

var _ Copier = (*Service)(nil)
