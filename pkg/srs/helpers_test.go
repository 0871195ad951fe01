package srs

import "os"

func writeRawFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
