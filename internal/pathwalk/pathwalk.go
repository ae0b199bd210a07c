// Package pathwalk discovers the files under a backup root using an
// iterative, stack-based walk (no recursion, so depth is bounded only by
// available memory rather than goroutine stack size).
package pathwalk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidRoot is returned when root is neither a regular file nor a
// directory (after symlink resolution), or a symlink resolves to neither.
var ErrInvalidRoot = errors.New("pathwalk: root is neither a file nor a directory")

// Entry is one discovered file: its absolute path and its path relative to
// the walk root.
type Entry struct {
	AbsPath string
	RelPath string
	Info    os.FileInfo
}

type stackFrame struct {
	absPath string
	relPath string
}

// Walk discovers every regular file reachable from root. Symlinks are
// resolved: a symlink to a file is reported as that file, a symlink to a
// directory is descended into. A root that is itself a file is reported as
// a single entry with relative path ".". A root that resolves to neither a
// file nor a directory is ErrInvalidRoot. Below the root, entries that are
// neither regular files nor directories are skipped, and a failure to read a
// directory or to stat or resolve any entry ends the whole walk with that
// error and no entries; failed entries are not reported individually.
func Walk(root string) ([]Entry, error) {
	rootInfo, resolvedRoot, err := resolve(root)
	if err != nil {
		return nil, err
	}

	if !rootInfo.IsDir() {
		if !rootInfo.Mode().IsRegular() {
			return nil, ErrInvalidRoot
		}
		return []Entry{{AbsPath: resolvedRoot, RelPath: ".", Info: rootInfo}}, nil
	}

	var entries []Entry
	stack := []stackFrame{{absPath: resolvedRoot, relPath: ""}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := os.ReadDir(frame.absPath)
		if err != nil {
			return nil, fmt.Errorf("pathwalk: reading %s: %w", frame.absPath, err)
		}

		for _, child := range children {
			childAbs := filepath.Join(frame.absPath, child.Name())
			childRel := child.Name()
			if frame.relPath != "" {
				childRel = filepath.Join(frame.relPath, child.Name())
			}

			info, resolved, err := resolve(childAbs)
			if err != nil {
				return nil, err
			}

			switch {
			case info.IsDir():
				stack = append(stack, stackFrame{absPath: resolved, relPath: childRel})
			case info.Mode().IsRegular():
				entries = append(entries, Entry{AbsPath: resolved, RelPath: childRel, Info: info})
			default:
				// device files, sockets, and similar special files are skipped
			}
		}
	}

	return entries, nil
}

// resolve follows symlinks (if path is one) and stats the result, returning
// both the stat info and the path the walk should treat as canonical from
// here on.
func resolve(path string) (os.FileInfo, string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, "", fmt.Errorf("pathwalk: stat %s: %w", path, err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return info, path, nil
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, "", fmt.Errorf("pathwalk: resolving symlink %s: %w", path, err)
	}
	targetInfo, err := os.Stat(target)
	if err != nil {
		return nil, "", fmt.Errorf("pathwalk: stat symlink target %s: %w", target, err)
	}
	return targetInfo, target, nil
}
