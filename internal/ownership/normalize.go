package ownership

import "strings"

// Normalize turns a path token from the ownership file into a glob pattern.
//
//	/src/main.go -> src/main.go
//	src/         -> src/*
//	src          -> src/*
//	src/*        -> src/*
//
// A last segment containing "." is a specific file and is returned as is.
func Normalize(path string) string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return ""
	}

	segment := path[strings.LastIndex(path, "/")+1:]
	if strings.Contains(segment, ".") {
		return path
	}

	switch {
	case strings.HasSuffix(path, "/"):
		path += "*"
	case !strings.HasSuffix(path, "*"):
		path += "/*"
	}
	return path
}
