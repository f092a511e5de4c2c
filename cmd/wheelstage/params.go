package wheelstage

import (
	"bufio"
	"os"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
)

// maxParamsDepth bounds params files that reference other params files
const maxParamsDepth = 8

// ExpandParamsFiles replaces every @file argument with the lines of file,
// one argument per line. Params files may reference other params files.
// A lone "@" is kept as is.
func ExpandParamsFiles(args []string) ([]string, error) {
	return expandParams(args, 0)
}

func expandParams(args []string, depth int) ([]string, error) {
	var out []string
	for _, arg := range args {
		if len(arg) < 2 || !strings.HasPrefix(arg, "@") {
			out = append(out, arg)
			continue
		}
		if depth >= maxParamsDepth {
			return nil, errors.Newf(errors.ErrInvalidInput, "params files nested deeper than %d", maxParamsDepth).
				WithDetail("path", arg[1:])
		}

		lines, err := readParamsFile(arg[1:])
		if err != nil {
			return nil, err
		}
		expanded, err := expandParams(lines, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func readParamsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		code := errors.ErrFileAccess
		if os.IsNotExist(err) {
			code = errors.ErrFileNotFound
		}
		return nil, errors.Wrapf(err, code, MsgParamsNotFound, path).WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, MsgParamsNotFound, path).WithDetail("path", path)
	}
	return lines, nil
}
