package domain

import "time"

// SourceFile is a file matched by a group's source globs.
type SourceFile struct {
	// Path is the file location on disk.
	Path string
	// Rel is the path relative to the group base, slash separated.
	// It determines where the file lands below the destination directory.
	Rel string
	// ModTime is the modification time observed while resolving.
	ModTime time.Time
}

// ChangedSince reports whether the file was modified strictly after since.
// A zero since matches every file.
func (f SourceFile) ChangedSince(since time.Time) bool {
	return since.IsZero() || f.ModTime.After(since)
}

// FilterChanged keeps the files modified after since, preserving order.
func FilterChanged(files []SourceFile, since time.Time) []SourceFile {
	if since.IsZero() {
		return files
	}
	out := make([]SourceFile, 0, len(files))
	for _, f := range files {
		if f.ChangedSince(since) {
			out = append(out, f)
		}
	}
	return out
}
