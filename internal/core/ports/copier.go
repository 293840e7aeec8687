package ports

// TreeCopier materializes source trees into the output directory.
type TreeCopier interface {
	// CopyTree copies every file under src into dst, preserving the relative
	// layout. keep, when non-nil, filters by slash-separated relative path.
	CopyTree(src, dst string, keep func(rel string) bool) error

	// CopyFile copies one file, creating parent directories as needed.
	CopyFile(src, dst string) error
}
