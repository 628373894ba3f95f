//go:build !unix && !windows

package engine

// Platforms without advisory locks rely on the in-process busy flag only.
type fileLock struct{}

func tryLock(string) (*fileLock, error) { return &fileLock{}, nil }

func (*fileLock) unlock() error { return nil }
