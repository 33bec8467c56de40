package histogram

import "testing"

func TestIgnoredByScanner(t *testing.T) {}
