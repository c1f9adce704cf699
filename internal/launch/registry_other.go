//go:build !windows

package launch

import "errors"

func installFolder(string) (string, error) {
	return "", errors.New("registry not available")
}
