// Package walk provides a top-down walk over a local billy filesystem.
package walk

import (
	"errors"
	"io/fs"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// SkipDir can be returned by a Func to skip the subdirectories of the
// directory it was called for.
var SkipDir = fs.SkipDir

// Dir is one directory visited by Walk.
type Dir struct {
	// Path is the directory path, rooted at the walk root.
	Path string

	// SubDirs holds the names of child directories, including symlinks to
	// directories, which are listed but never descended into.
	SubDirs []string

	// Files holds the names of every other child.
	Files []string
}

// Func is called once per directory, parents before children.
type Func func(dir Dir) error

// Walk visits root and every directory below it without following symbolic
// links.
func Walk(fsys billy.Filesystem, root string, fn Func) error {
	return walkDir(fsys, root, fn)
}

func walkDir(fsys billy.Filesystem, dir string, fn Func) error {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	d := Dir{Path: dir}
	var descend []string
	for _, info := range infos {
		name := info.Name()
		switch {
		case info.IsDir():
			d.SubDirs = append(d.SubDirs, name)
			descend = append(descend, name)
		case info.Mode()&fs.ModeSymlink != 0 && isDir(fsys, path.Join(dir, name)):
			d.SubDirs = append(d.SubDirs, name)
		default:
			d.Files = append(d.Files, name)
		}
	}

	if err := fn(d); err != nil {
		if errors.Is(err, SkipDir) {
			return nil
		}
		return err
	}

	for _, name := range descend {
		if err := walkDir(fsys, fsys.Join(dir, name), fn); err != nil {
			return err
		}
	}
	return nil
}

// isDir follows a symlink to see what it points at.
func isDir(fsys billy.Filesystem, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}
