//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package term

import "errors"

func enterRawMode(int) (func() error, error) {
	return nil, errors.New("raw terminal mode is not supported on this platform")
}
