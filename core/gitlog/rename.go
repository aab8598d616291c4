package gitlog

import "strings"

const renameArrow = "=>"

// NormalizePath resolves git's rename notation into the post-rename path.
//
//	src/{old => new}/main.go  -> src/new/main.go
//	src/{ => sub}/main.go     -> src/sub/main.go
//	src/{sub => }/main.go     -> src/main.go
//	old.go => new.go          -> new.go
//
// Paths without rename notation are returned unchanged.
func NormalizePath(path string) string {
	if !strings.Contains(path, renameArrow) {
		return path
	}

	if prefix, target, suffix, ok := splitBracedRename(path); ok {
		if target == "" && strings.HasSuffix(prefix, "/") && strings.HasPrefix(suffix, "/") {
			suffix = suffix[1:]
		}
		return prefix + target + suffix
	}

	// Whole-path rename, git omits the braces when nothing is shared.
	if i := strings.Index(path, " "+renameArrow+" "); i != -1 {
		return strings.TrimSpace(path[i+len(renameArrow)+2:])
	}
	return path
}

// splitBracedRename finds the first "{old => new}" span and returns the text
// around it together with the trimmed right-hand side.
func splitBracedRename(path string) (prefix, target, suffix string, ok bool) {
	open := strings.Index(path, "{")
	if open == -1 {
		return "", "", "", false
	}
	closing := strings.Index(path[open:], "}")
	if closing == -1 {
		return "", "", "", false
	}
	closing += open

	inner := path[open+1 : closing]
	arrow := strings.Index(inner, renameArrow)
	if arrow == -1 {
		return "", "", "", false
	}

	target = strings.TrimSpace(inner[arrow+len(renameArrow):])
	return path[:open], target, path[closing+1:], true
}
