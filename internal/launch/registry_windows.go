//go:build windows

package launch

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

func installFolder(key string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", key, err)
	}
	defer k.Close()

	dir, _, err := k.GetStringValue(installFolderValue)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", installFolderValue, err)
	}
	return dir, nil
}
